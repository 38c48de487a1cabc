package report

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/cosmoviz/internal/analysis"
)

var printer = message.NewPrinter(language.English)

// WriteSummary prints the three-line console summary of s.
func WriteSummary(w io.Writer, s *analysis.Summary) error {
	if _, err := printer.Fprintf(w, "R2: %.3f\n", s.R2); err != nil {
		return err
	}
	if _, err := printer.Fprintf(w, "relative error: %.3f\n", s.RelativeError); err != nil {
		return err
	}
	_, err := printer.Fprintf(w, "A fraction of succeses of %.3f at 1 sigma, %.3f at 2 sigmas\n",
		s.Fraction1Sigma, s.Fraction2Sigma)
	return err
}
