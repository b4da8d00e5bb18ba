package output

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

// BannerOptions configures the startup banner display.
type BannerOptions struct {
	ShowBanner  bool // Show ASCII art logo
	ShowVersion bool // Show version information
	ShowLicense bool // Show license information
}

// DefaultBannerOptions returns default banner configuration.
func DefaultBannerOptions() BannerOptions {
	return BannerOptions{
		ShowBanner:  true,
		ShowVersion: true,
		ShowLicense: true,
	}
}

// PrintBanner displays the Plugify logo and information.
func PrintBanner(w io.Writer, version string, opts BannerOptions) {
	if w == nil {
		return
	}

	if !opts.ShowBanner {
		// Simple text-only banner
		if opts.ShowVersion {
			fmt.Fprintf(w, "Plugify v%s\n", version)
		}
		if opts.ShowLicense {
			fmt.Fprintf(w, "MIT License | https://github.com/shivasurya/plugify\n")
		}
		fmt.Fprintln(w)
		return
	}

	// Generate ASCII art using go-figure
	asciiArt := GetASCIILogo()
	fmt.Fprintln(w, asciiArt)

	// Version and license info
	if opts.ShowVersion {
		fmt.Fprintf(w, "Plugify v%s\n", version)
	}

	if opts.ShowLicense {
		fmt.Fprintln(w, "MIT License | https://github.com/shivasurya/plugify")
	}

	// Empty line separator
	fmt.Fprintln(w)
}

// GetASCIILogo generates the ASCII art logo for "Plugify".
func GetASCIILogo() string {
	// Use "standard" font for compact output
	fig := figure.NewFigure("Plugify", "standard", true)
	return fig.String()
}

// GetCompactBanner returns a single-line banner for non-TTY output.
func GetCompactBanner(version string) string {
	return fmt.Sprintf("Plugify v%s | MIT | https://github.com/shivasurya/plugify", version)
}

// ShouldShowBanner determines if banner should be displayed.
func ShouldShowBanner(isTTY bool, noBannerFlag bool) bool {
	// Never show if --no-banner is set
	if noBannerFlag {
		return false
	}
	// Show full banner only in TTY
	return isTTY
}
