package doc

// FormattingConfig is the capability the layout pass needs from its caller.
// Additional knobs such as indent width or tab handling are the caller's
// responsibility: they must already be baked into the Doc by the time it
// reaches this package.
type FormattingConfig interface {
	// LineLength returns the target column width groups are measured
	// against.
	LineLength() int
}

// StaticConfig is the simplest possible [FormattingConfig]: a fixed line
// length.
type StaticConfig int

// LineLength implements [FormattingConfig].
func (c StaticConfig) LineLength() int { return int(c) }
