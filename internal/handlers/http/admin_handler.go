// internal/handlers/http/admin_handler.go
package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"dca-oilgas/internal/middleware"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

// ProductionWriter tujuan import CSV (MySQL ProductionRepo). UpsertWells harus
// atomik: error berarti tidak ada baris yang tersimpan.
type ProductionWriter interface {
	UpsertWells(ctx context.Context, wells []services.WellRows) (int64, error)
}

const maxUploadBytes = 8 << 20

type uploadResult struct {
	WellID string `json:"well_id"`
	Rows   int    `json:"rows"`
}

// NewAdminUploadHandler import CSV produksi bulanan (multipart field "file", opsional "well_id").
// Setiap sumur divalidasi lewat Normalize dulu; satu baris rusak menolak seluruh upload,
// dan penulisan semua sumur terjadi dalam satu transaksi.
func NewAdminUploadHandler(repo ProductionWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			http.Error(w, "production repo not configured", http.StatusServiceUnavailable)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file missing", http.StatusBadRequest)
			return
		}
		defer f.Close()

		wells, err := services.ReadProductionCSV(f, strings.TrimSpace(r.FormValue("well_id")))
		if err != nil {
			writeAppError(w, err)
			return
		}
		for _, wr := range wells {
			if _, err := services.Normalize(wr.Rows, services.AverageDaysPerMonth); err != nil {
				writeAppError(w, util.MalformedProductionRow("well %s: %v", wr.WellID, errMessage(err)))
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		if _, err := repo.UpsertWells(ctx, wells); err != nil {
			log.Printf("[ERROR] upsert prod_monthly (%d wells, rolled back): %v", len(wells), err)
			writeAppError(w, util.Internal("write error, nothing was stored"))
			return
		}
		out := make([]uploadResult, 0, len(wells))
		for _, wr := range wells {
			out = append(out, uploadResult{WellID: wr.WellID, Rows: len(wr.Rows)})
		}
		log.Printf("[INFO] admin upload %s by %q: %d well(s)", hdr.Filename, middleware.AdminFromContext(r.Context()), len(out))

		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "file": hdr.Filename, "wells": out})
	}
}

func errMessage(err error) string {
	if ae, ok := util.AsAppError(err); ok {
		return ae.Message
	}
	return err.Error()
}

func writeAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := util.CodeInternal
	if ae, ok := util.AsAppError(err); ok && util.IsClientError(err) {
		status, code = http.StatusBadRequest, ae.Code
	}
	writeJSON(w, status, map[string]string{"error": code, "message": errMessage(err)})
}

// writeJSON marshal dulu baru tulis header; gagal encode (mis. NaN) jadi 500, bukan 200 kosong.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[ERROR] encode response: %v", err)
		status = http.StatusInternalServerError
		b, _ = json.Marshal(map[string]string{"error": util.CodeInternal, "message": "response encoding failed"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}
