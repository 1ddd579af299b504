package input

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ReadPassphrase prompts on stderr and reads a passphrase from the terminal
// without echo. When stdin is not a terminal (renewal hooks run the tool
// non-interactively) no prompt is possible and an error is returned instead
// of blocking forever.
func ReadPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("passphrase required but stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	pass, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(pass), nil
}
