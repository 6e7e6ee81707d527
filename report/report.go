// Package report renders outcomes as tab-separated lines meant to be pasted
// into a spreadsheet. The first two columns are spreadsheet formulas showing
// the site's icon and a link to its SSL Labs report.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sslratings/sslratings/scan"
)

const (
	imageFormat     = `=image("%s", 4, 16, 16)`
	hyperlinkFormat = `=hyperlink("https://www.ssllabs.com/ssltest/analyze.html?d=%s","%s")`

	unavailable = "!"
	noVulns     = "None"
)

// A Layout is the ordered list of Pass/Fail columns of a result line.
type Layout int

const (
	// Current has one column per criterion and lists POODLE, Heartbleed,
	// FREAK and Logjam in the trailing vulnerability column only.
	Current Layout = iota
	// Legacy additionally has Pass/Fail columns for POODLE, Heartbleed,
	// FREAK and Logjam, as older reports did.
	Legacy
)

var layoutNames = []string{"current", "legacy"}

func (l Layout) String() string {
	return layoutNames[l]
}

// ParseLayout parses the String() form of a Layout.
func ParseLayout(s string) (Layout, error) {
	for i, name := range layoutNames {
		if s == name {
			return Layout(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layout %q (want one of %v)", s, layoutNames)
}

type column struct {
	title string
	pass  func(scan.Result) bool
}

var (
	colSSLv3 = column{"SSLv3", func(r scan.Result) bool { return r.SSLv3Disabled }}
	colTLS12 = column{"TLSv1.2", func(r scan.Result) bool { return r.TLSv12Supported }}
	colSHA1  = column{"SHA1", func(r scan.Result) bool { return r.CertNotSHA1 }}
	colRC4   = column{"RC4", func(r scan.Result) bool { return r.RC4Disabled }}
	colPFS   = column{"PFS", func(r scan.Result) bool { return r.ForwardSecrecy }}
	colSCSV  = column{"SCSV", func(r scan.Result) bool { return r.FallbackSCSV }}
	colHSTS  = column{"HSTS", func(r scan.Result) bool { return r.HSTSSent }}
	colEV    = column{"EV", func(r scan.Result) bool { return r.CertEV }}
)

func legacyColumn(criterion string) column {
	return column{criterion, func(r scan.Result) bool { return r.LegacyPass(criterion) }}
}

var layouts = map[Layout][]column{
	Current: {colSSLv3, colTLS12, colSHA1, colRC4, colPFS, colSCSV, colHSTS, colEV},
	Legacy: {
		colSSLv3, colTLS12, colSHA1, colRC4, colPFS,
		legacyColumn(scan.VulnPOODLE),
		legacyColumn(scan.VulnHeartbleed),
		legacyColumn(scan.VulnFREAK),
		legacyColumn(scan.VulnLogjam),
		colSCSV, colHSTS, colEV,
	},
}

// Header returns the column titles of layout as a line.
func Header(layout Layout) string {
	fields := []string{"Icon", "Site", "Grade", "Score"}
	for _, c := range layouts[layout] {
		fields = append(fields, c.title)
	}
	fields = append(fields, "Vulnerabilities")
	return strings.Join(fields, "\t") + "\n"
}

// Line renders o as one newline-terminated, tab-separated line.
//
// Site names, hosts and icons are not escaped; the site registry rejects
// values containing tabs or line breaks.
func Line(o scan.Outcome, layout Layout) string {
	s := scan.SiteOf(o)
	fields := []string{
		fmt.Sprintf(imageFormat, s.Icon),
		fmt.Sprintf(hyperlinkFormat, s.Host, s.Name),
	}

	switch v := o.(type) {
	case scan.Failure:
		fields = append(fields, unavailable, singleLine(v.Message))
	case scan.Result:
		score := unavailable
		if v.Score != scan.ScoreUnavailable {
			score = strconv.Itoa(v.Score)
		}
		fields = append(fields, v.Grade, score)
		for _, c := range layouts[layout] {
			fields = append(fields, passFail(c.pass(v)))
		}
		fields = append(fields, vulnList(v.Vulns))
	}

	return strings.Join(fields, "\t") + "\n"
}

var lineBreaks = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// singleLine keeps upstream text from breaking the line into extra columns
// or rows.
func singleLine(s string) string {
	return lineBreaks.Replace(s)
}

func passFail(pass bool) string {
	if pass {
		return "Pass"
	}
	return "Fail"
}

func vulnList(vulns []string) string {
	if len(vulns) == 0 {
		return noVulns
	}
	return strings.Join(vulns, ",")
}

// Writer writes lines to an underlying writer, flushing after each one so
// that partial output survives an aborted run.
type Writer struct {
	w      *bufio.Writer
	layout Layout
}

// NewWriter creates a Writer rendering results with layout.
func NewWriter(w io.Writer, layout Layout) *Writer {
	return &Writer{w: bufio.NewWriter(w), layout: layout}
}

// WriteHeader writes the column titles.
func (w *Writer) WriteHeader() error {
	return w.writeLine(Header(w.layout))
}

// Write renders and flushes the line for o.
func (w *Writer) Write(o scan.Outcome) error {
	return w.writeLine(Line(o, w.layout))
}

func (w *Writer) writeLine(line string) error {
	if _, err := w.w.WriteString(line); err != nil {
		return err
	}
	return w.w.Flush()
}
