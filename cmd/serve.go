package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/config"
	"github.com/jsphweid/mdlfit/logger"
	"github.com/jsphweid/mdlfit/mdl"
	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/model"
	"github.com/jsphweid/mdlfit/sweep"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	servedDataset model.Dataset
	servedConfig  *config.Config
	flagAddr      string
)

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves model fits over HTTP",
	Long:  `Loads the encoded dataset once and answers fit, sweep and compare requests for it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := LoadServeFiles(cfg); err != nil {
			return err
		}
		return serve(flagAddr)
	},
}

// LoadServeFiles loads the dataset every handler answers for.
func LoadServeFiles(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	if _, err := model.ValidateDataset(ds); err != nil {
		return err
	}
	servedDataset = ds
	servedConfig = cfg
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"dataset":  model.DatasetName(ds),
		"pieces":   len(ds),
		"measures": model.NumMeasures(ds),
	}).Info("Loaded dataset")
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusOf maps domain errors to HTTP statuses.
func statusOf(err error) int {
	switch errors.Unwrap(err).(type) {
	case mdl.UnknownModelError, sweep.InvalidGridError, sweep.NoModelsError, config.InvalidConfigError:
		return http.StatusBadRequest
	case meter.NotImplementedError, meter.GridSizeError,
		model.GridSizeMismatchError, model.InvalidOnsetError, model.EmptyDatasetError:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.GetProjectLogger().Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.WithStackTrace(config.InvalidConfigError{Field: "body", Reason: err.Error()})
	}
	return nil
}

func HandleModels(w http.ResponseWriter, r *http.Request) {
	res := model.ModelsResponse{Models: make([]string, len(mdl.Names))}
	for i, n := range mdl.Names {
		res.Models[i] = string(n)
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleFit(w http.ResponseWriter, r *http.Request) {
	var input model.FitRequestBody
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}
	name, err := mdl.ParseName(input.Model)
	if err != nil {
		writeError(w, err)
		return
	}

	mc := servedConfig.ModelConfig()
	if input.Precision != nil {
		if *input.Precision < 2 {
			writeError(w, errors.WithStackTrace(config.InvalidConfigError{Field: "precision", Reason: fmt.Sprintf("%g is below 2", *input.Precision)}))
			return
		}
		mc.Precision = input.Precision
	}

	m, err := mdl.New(name, servedDataset, mc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Report())
}

// precisionGrid falls back to the configured exponents for zero values.
func precisionGrid(minExp, maxExp int) ([]float64, error) {
	if minExp == 0 {
		minExp = servedConfig.Sweep.MinExponent
	}
	if maxExp == 0 {
		maxExp = servedConfig.Sweep.MaxExponent
	}
	return sweep.PowersOfTwo(minExp, maxExp)
}

func HandleSweep(w http.ResponseWriter, r *http.Request) {
	var input model.SweepRequestBody
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}
	name, err := mdl.ParseName(input.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	grid, err := precisionGrid(input.MinExponent, input.MaxExponent)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := sweep.NewSelector(servedConfig.Workers).Sweep(r.Context(), servedDataset, name, servedConfig.ModelConfig(), grid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Report())
}

func HandleCompare(w http.ResponseWriter, r *http.Request) {
	var input model.CompareRequestBody
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}

	models := input.Models
	if len(models) == 0 {
		models = servedConfig.Models
	}
	names := make([]mdl.Name, len(models))
	for i, s := range models {
		name, err := mdl.ParseName(s)
		if err != nil {
			writeError(w, err)
			return
		}
		names[i] = name
	}
	grid, err := precisionGrid(input.MinExponent, input.MaxExponent)
	if err != nil {
		writeError(w, err)
		return
	}

	cmp, err := sweep.NewSelector(servedConfig.Workers).Compare(r.Context(), servedDataset, names, servedConfig.ModelConfig(), grid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp.Report())
}

func newRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/models", HandleModels).Methods("GET")
	router.HandleFunc("/fit", HandleFit).Methods("POST")
	router.HandleFunc("/sweep", HandleSweep).Methods("POST")
	router.HandleFunc("/compare", HandleCompare).Methods("POST")
	return cors.Default().Handler(router)
}

func serve(addr string) error {
	logger.GetProjectLogger().WithFields(logrus.Fields{"addr": addr}).Info("Serving")
	return errors.WithStackTrace(http.ListenAndServe(addr, newRouter()))
}
