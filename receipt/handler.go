package receipt

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"smartshop/config"
)

// DownloadHandler handles GET /api/receipts/{saleId}. ?format=pdf serves the
// printed PDF when one was generated for the sale.
func DownloadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimPrefix(r.URL.Path, "/api/receipts/")
		saleID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Sale id is required", http.StatusBadRequest)
			return
		}

		cfg := config.GetConfig()
		name := FileName(saleID)
		contentType := "text/plain; charset=utf-8"
		if r.URL.Query().Get("format") == "pdf" {
			name = fmt.Sprintf("receipt_%d.pdf", saleID)
			contentType = "application/pdf"
		}

		path := filepath.Join(cfg.ReceiptsDir, name)
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		http.ServeFile(w, r, path)
	}
}
