package workers

import (
	"os"
	"strings"

	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/envelope"
)

// ReadFile spawns the worker behind fs.readFile: it reads path off the
// event-loop goroutine and decodes it as UTF-8 with lossy replacement
// (exact-bytes binary mode isn't supported). A 0-byte file yields ReadOk
// with an empty string.
func ReadFile(pool Pool, ch envelope.Chan, path string, cb engine.Callback) {
	pool.Go(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			ch <- envelope.ReadErr{Callback: cb, Message: err.Error()}
			return
		}
		ch <- envelope.ReadOk{Callback: cb, Contents: strings.ToValidUTF8(string(data), "�")}
	})
}

// WriteFile spawns the worker behind fs.writeFile. data is already the UTF-8
// string the binding coerced it to.
func WriteFile(pool Pool, ch envelope.Chan, path, data string, cb engine.Callback) {
	pool.Go(func() {
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			ch <- envelope.WriteErr{Callback: cb, Message: err.Error()}
			return
		}
		ch <- envelope.WriteOk{Callback: cb}
	})
}
