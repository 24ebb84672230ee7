package profile

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/tidwall/jsonc"
)

//go:embed fallback_jvm_args.jsonc
var fallbackJVMArgsSource []byte

var fallbackJVMArgs = sync.OnceValues(func() ([]Argument, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(fallbackJVMArgsSource), &raw); err != nil {
		return nil, err
	}
	return parseArguments(raw)
})

// FallbackJVMArgs returns the built-in JVM arguments substituted for
// manifests without an "arguments" block.
func FallbackJVMArgs() ([]Argument, error) {
	args, err := fallbackJVMArgs()
	if err != nil {
		return nil, err
	}
	out := make([]Argument, len(args))
	copy(out, args)
	return out, nil
}
