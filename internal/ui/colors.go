package ui

// The Color* functions return the escape code of the active theme for a
// color role. They return "" when colors are disabled.

// ColorReset clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed is used for errors and negative symbols.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen is used for success and positive symbols.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow is used for warnings and zero symbols.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue is used for primary accents.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta is used for informational values.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan is used for labels and names.
func ColorCyan() string { return GetCurrentTheme().Primary }

// ColorBold starts bold text.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline starts underlined text.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorDim is used for secondary text.
func ColorDim() string { return GetCurrentTheme().Secondary }
