// internal/handlers/join.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// IndexHandler reports basic liveness info at the root path.
func IndexHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "buzzboard is running. %d connection(s) active.\n", gs.NumConns())
	}
}

// HealthzHandler is a plain health probe endpoint.
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}
}

// JoinHandler serves a minimal page with a QR code pointing players at the
// game, for scanning from the host screen.
func JoinHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Join the game</title></head>
<body style="text-align:center;font-family:sans-serif">
<h1>Scan to join</h1>
<img src="/join/qr.png" alt="join QR code" width="%d" height="%d">
<p>%s</p>
</body>
</html>
`, qrSize, qrSize, joinURL(r))
	}
}

// QRHandler encodes the join URL as a PNG QR code.
func QRHandler(logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		png, err := qrcode.Encode(joinURL(r), qrcode.Medium, qrSize)
		if err != nil {
			logger.Errorf("failed to encode QR code: %v", err)
			http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}

// joinURL reconstructs the externally visible URL of the game root, honoring
// proxies that terminate TLS.
func joinURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s/", scheme, r.Host)
}
