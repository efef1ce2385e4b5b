package pdfsvc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-extractor/core"
	"github.com/trezcool/masomo-extractor/core/extraction"
)

// kerning adjustments (in thousandths of text space) at or below this value
// inside a TJ array are rendered as a word break.
const wordSpaceKerning = -200

var errEmptyDocument = errors.New("empty document")

// Opener opens PDFs with github.com/ledongthuc/pdf (pure Go, no CGO).
type Opener struct{}

var _ extraction.Opener = (*Opener)(nil)

func NewOpener() *Opener {
	return &Opener{}
}

func (o *Opener) Open(data []byte) (doc extraction.Document, err error) {
	// the parser panics on some malformed xref tables and object streams
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = core.NewParseError(fmt.Errorf("%v", r))
		}
	}()

	if len(data) == 0 {
		return nil, core.NewParseError(errEmptyDocument)
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, core.NewParseError(err)
	}
	return &document{reader: r, count: r.NumPage()}, nil
}

type document struct {
	reader *pdf.Reader
	count  int
}

func (d *document) PageCount() int { return d.count }

func (d *document) PageText(index int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = core.NewParseError(fmt.Errorf("page %d: %v", index+1, r))
		}
	}()

	if index < 0 || index >= d.count {
		return "", core.NewParseError(fmt.Errorf("page index %d out of range [0, %d)", index, d.count))
	}
	page := d.reader.Page(index + 1)
	if page.V.IsNull() {
		return "", nil
	}
	return strings.Join(pageRuns(page), " "), nil
}

// rawEncoding is used until the content stream selects a font.
type rawEncoding struct{}

func (rawEncoding) Decode(raw string) string { return raw }

// pageRuns interprets the page content streams and returns one run per
// text-showing operator (Tj, TJ, ' and "), in content order.
func pageRuns(page pdf.Page) []string {
	encoders := make(map[string]pdf.TextEncoding)
	for _, name := range page.Fonts() {
		encoders[name] = page.Font(name).Encoder()
	}

	var (
		enc  pdf.TextEncoding = rawEncoding{}
		runs []string
	)
	addRun := func(s string) {
		if s != "" {
			runs = append(runs, s)
		}
	}

	interpret := func(strm pdf.Value) {
		pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
			n := stk.Len()
			args := make([]pdf.Value, n)
			for i := n - 1; i >= 0; i-- {
				args[i] = stk.Pop()
			}

			switch op {
			case "Tf":
				if n < 2 {
					return
				}
				if e, ok := encoders[args[0].Name()]; ok {
					enc = e
				} else {
					enc = rawEncoding{}
				}
			case "Tj", "'":
				if n < 1 {
					return
				}
				addRun(enc.Decode(args[0].RawString()))
			case `"`:
				if n < 3 {
					return
				}
				addRun(enc.Decode(args[2].RawString()))
			case "TJ":
				if n < 1 {
					return
				}
				var sb strings.Builder
				arr := args[0]
				for i := 0; i < arr.Len(); i++ {
					x := arr.Index(i)
					switch x.Kind() {
					case pdf.String:
						sb.WriteString(enc.Decode(x.RawString()))
					case pdf.Integer, pdf.Real:
						if x.Float64() <= wordSpaceKerning && sb.Len() > 0 {
							sb.WriteString(" ")
						}
					}
				}
				addRun(sb.String())
			}
		})
	}

	contents := page.V.Key("Contents")
	switch contents.Kind() {
	case pdf.Null:
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			interpret(contents.Index(i))
		}
	default:
		interpret(contents)
	}
	return runs
}
