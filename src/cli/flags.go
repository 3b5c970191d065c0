package cli

func (c *RootCommand) initFlags() {
	c.PersistentFlags().StringVarP(
		&c.Options.ConfigPath,
		"config",
		"c",
		"",
		"Path to the .env configuration file",
	)
	c.PersistentFlags().StringVarP(
		&c.Options.DBDirectory,
		"dir",
		"d",
		"",
		"Database directory, overrides BLOCKFILE_DB_DIRECTORY",
	)
	c.PersistentFlags().IntVarP(
		&c.Options.BlockSize,
		"block-size",
		"b",
		0,
		"Block size in bytes, overrides BLOCKFILE_BLOCK_SIZE",
	)
}
