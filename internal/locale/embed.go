package locale

import (
	"embed"
	"io/fs"
)

//go:embed locales/*.json
var embedded embed.FS

// Embedded returns the dictionaries compiled into the binary
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		panic(err)
	}
	return sub
}
