package auth

import (
	"fmt"
	"io"
	"strings"
)

// APIKeyPage is where Pexels users create API keys
const APIKeyPage = "https://www.pexels.com/api/new/"

// ShowAPIKeyGuide writes instructions for obtaining and storing an API key
func ShowAPIKeyGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "PEXELS API KEY")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This tool needs a free Pexels API key to look up photos.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1. Sign in to Pexels and open "+APIKeyPage)
	fmt.Fprintln(w, "  2. Describe your project and accept the API terms")
	fmt.Fprintln(w, "  3. Copy the key shown on your API dashboard")
	fmt.Fprintln(w, "  4. Run 'pexelsimport auth set-key' and paste it when prompted")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Alternatively export %s in your shell or put it in a .env file.\n", APIKeyEnv)
	fmt.Fprintln(w, "Photos you import must credit the photographer and Pexels;")
	fmt.Fprintln(w, "keep the default --credit unless you add attribution yourself.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
}
