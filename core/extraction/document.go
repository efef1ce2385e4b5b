package extraction

type (
	// Document is an opened PDF.
	Document interface {
		PageCount() int
		// PageText returns the text runs of the zero-based page index joined with single spaces.
		PageText(index int) (string, error)
	}

	// Opener parses raw bytes into a Document.
	// Implementations must return a *core.ParseError when data is not a readable PDF.
	Opener interface {
		Open(data []byte) (Document, error)
	}
)
