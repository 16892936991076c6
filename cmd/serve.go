package cmd

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/pitchnamer/file"
	"github.com/jsphweid/pitchnamer/model"
	"github.com/jsphweid/pitchnamer/pitch"
	"github.com/jsphweid/pitchnamer/report"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// uploads larger than this are cut off and fail to parse
const maxUploadBytes = 32 << 20

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves pitch naming over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("listening", "addr", cfg.Addr)
		return http.ListenAndServe(cfg.Addr, NewHandler())
	},
}

func NewHandler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/names/{tpc}", HandleName).Methods("GET")
	router.HandleFunc("/extract", HandleExtract).Methods("POST")
	router.HandleFunc("/report", HandleReport).Methods("POST")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("could not write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
}

func HandleName(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["tpc"]
	tpc, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, errors.Errorf("%q is not a tonal pitch class", raw))
		return
	}
	writeJSON(w, http.StatusOK, model.NameResponse{TPC: tpc, Name: pitch.NameForTpc(tpc)})
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Errorf("%v must be a measure number, got %q", key, raw)
	}
	return v, nil
}

// readUpload parses the request body as a score of the kind named by the
// type query parameter.
func readUpload(r *http.Request, w http.ResponseWriter) (model.Source, error) {
	kind, err := file.ParseKind(r.URL.Query().Get("type"))
	if err != nil {
		return nil, err
	}
	var rng file.Range
	if rng.From, err = queryInt(r, "from"); err != nil {
		return nil, err
	}
	if rng.To, err = queryInt(r, "to"); err != nil {
		return nil, err
	}
	return file.Read(http.MaxBytesReader(w, r.Body, maxUploadBytes), kind, rng)
}

func HandleExtract(w http.ResponseWriter, r *http.Request) {
	src, err := readUpload(r, w)
	if err != nil {
		writeError(w, err)
		return
	}
	labels := pitch.ExtractLabeledPitches(src.Occurrences())
	res := model.ExtractResponse{
		Id:      uuid.New().String(),
		Total:   len(labels),
		Pitches: labels,
	}
	slog.Debug("extracted upload", "id", res.Id, "total", res.Total)
	writeJSON(w, http.StatusOK, res)
}

func HandleReport(w http.ResponseWriter, r *http.Request) {
	src, err := readUpload(r, w)
	if err != nil {
		writeError(w, err)
		return
	}
	source := "upload"
	if name := r.URL.Query().Get("name"); name != "" {
		source = filepath.Base(name)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.WriteText(w, source, pitch.ExtractLabeledPitches(src.Occurrences())); err != nil {
		slog.Warn("could not write report", "err", err)
	}
}
