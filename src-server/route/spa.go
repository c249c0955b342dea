package route

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"quickcal/src-server/utils"
)

func SPA(muxer *http.ServeMux, as *utils.AppState) {
	dir := as.Config.GetStaticWebClientDir()
	if dir == "" {
		return
	}

	files := http.FS(os.DirFS(dir))
	indexFile, err := files.Open("index.html")
	if err != nil {
		slog.Error("Can't open index.html", "err", err)
		return
	}
	indexFile.Close()

	// ServeContent seeks the reader, so every request needs its own handle;
	// a shared one races under concurrent fallback requests
	serveIndex := func(w http.ResponseWriter, r *http.Request) {
		indexFile, err := files.Open("index.html")
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		defer indexFile.Close()
		stat, err := indexFile.Stat()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		http.ServeContent(w, r, stat.Name(), stat.ModTime(), indexFile)
	}

	muxer.HandleFunc("GET /{filepath...}", func(w http.ResponseWriter, r *http.Request) {
		filepath := filepath.Clean(r.PathValue("filepath"))
		switch filepath {
		case ".":
			filepath = "index.html"
		case "calendar":
			filepath = "calendar/index.html"
		}

		file, err := files.Open(filepath)
		if err != nil {
			serveIndex(w, r)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			serveIndex(w, r)
			return
		}

		http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
	})
}
