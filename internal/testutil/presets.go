package testutil

// WithReturningUser stores what a previous dark-mode rust session at double
// speed would have left behind.
func (b *Builder) WithReturningUser() *Builder {
	return b.
		WithTheme("dark").
		WithLanguage("rust").
		WithSpeed(2)
}

// WithCorruptPrefs stores values no current version writes.
func (b *Builder) WithCorruptPrefs() *Builder {
	return b.
		WithTheme("sepia").
		WithLanguage("klingon").
		WithSpeed(-3)
}
