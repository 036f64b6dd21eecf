package api

import (
	"fmt"
	"net/http"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>gauth-server</title>
  </head>
  <body>
    <h1>gauth-server</h1>
    <p>TOTP secret service. Documentation lives at
    <a href="https://github.com/crustymonkey/gauth-server">https://github.com/crustymonkey/gauth-server</a>.</p>
    <h2>Endpoints</h2>
    <ul>
      <li><code>POST /create</code></li>
      <li><code>POST /delete</code></li>
      <li><code>POST /verify</code></li>
      <li><code>POST /qr</code></li>
      <li><code>POST /qr_url</code></li>
    </ul>
  </body>
</html>`)
}
