package testutil

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

// Page holds the raw content streams of one page, drawn in order.
// Fonts /F1 (Helvetica, WinAnsiEncoding) and /F2 (Courier, MacRomanEncoding) are available.
type Page struct {
	Streams  []string
	Compress bool // FlateDecode every stream
}

// BuildPDF returns an uncompressed PDF 1.4 document with one page per entry of pages.
// Every run of a page is drawn with Helvetica by its own Tj operator; a page
// without runs has an empty content stream, like a scanned image-only page.
func BuildPDF(pages ...[]string) []byte {
	raw := make([]Page, 0, len(pages))
	for _, runs := range pages {
		raw = append(raw, Page{Streams: []string{contentStream(runs)}})
	}
	return BuildRawPDF(raw...)
}

// BuildRawPDF returns a PDF 1.4 document whose pages carry the given content streams.
// A page with several streams gets a /Contents array; a page without streams has no /Contents.
func BuildRawPDF(pages ...Page) []byte {
	var (
		buf     bytes.Buffer
		offsets []int
	)
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	// objects 1-4 are shared; each page is followed by its streams
	pageNums := make([]int, 0, len(pages))
	next := 5
	for _, p := range pages {
		pageNums = append(pageNums, next)
		next += 1 + len(p.Streams)
	}
	kids := make([]string, 0, len(pages))
	for _, n := range pageNums {
		kids = append(kids, fmt.Sprintf("%d 0 R", n))
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /MacRomanEncoding >>")
	for i, p := range pages {
		refs := make([]string, 0, len(p.Streams))
		for j := range p.Streams {
			refs = append(refs, fmt.Sprintf("%d 0 R", pageNums[i]+1+j))
		}
		var contents string
		switch len(refs) {
		case 0:
		case 1:
			contents = " /Contents " + refs[0]
		default:
			contents = " /Contents [" + strings.Join(refs, " ") + "]"
		}
		obj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >>%s >>",
			contents,
		))
		for _, s := range p.Streams {
			obj(streamObject(s, p.Compress))
		}
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func streamObject(content string, compress bool) string {
	if !compress {
		return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)
	}
	var z bytes.Buffer
	w := zlib.NewWriter(&z)
	_, _ = w.Write([]byte(content))
	_ = w.Close()
	return fmt.Sprintf("<< /Length %d /Filter /FlateDecode >>\nstream\n%s\nendstream", z.Len(), z.String())
}

func contentStream(runs []string) string {
	if len(runs) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
	for i, run := range runs {
		if i > 0 {
			sb.WriteString("0 -14 Td\n")
		}
		fmt.Fprintf(&sb, "(%s) Tj\n", escape(run))
	}
	sb.WriteString("ET")
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
}
