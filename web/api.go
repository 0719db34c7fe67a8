package web

import (
	"encoding/json"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/geojson"
	"io"
	"net/http"
	"sqt/feature"
	"sqt/geometry"
	ownIo "sqt/io"
	"sqt/script"
	"sqt/storage"
	"strconv"
)

const maxLengthOfPrintedScript = 10000

type ErrorResponse struct {
	Error   string `json:"error"`
	Details error  `json:"details"`
}

func NewErrorResponse(message string, err error) ErrorResponse {
	return ErrorResponse{
		Error:   message,
		Details: err,
	}
}

type InsertResponse struct {
	Inserted int `json:"inserted"`
}

type RemoveResponse struct {
	Removed bool `json:"removed"`
}

type ScriptResultResponse struct {
	Statement string                     `json:"statement"`
	Count     int                        `json:"count"`
	Features  *geojson.FeatureCollection `json:"features,omitempty"`
	Output    string                     `json:"output,omitempty"`
}

func StartServer(port string, store *storage.Store) {
	r := initRouter(store)
	sigolo.Infof("Start server without TLS support on port %s", port)
	err := http.ListenAndServe(":"+port, r)
	sigolo.FatalCheck(err)
}

func StartServerTls(port string, certFile string, keyFile string, store *storage.Store) {
	r := initRouter(store)
	sigolo.Infof("Start server with TLS support on port %s", port)
	err := http.ListenAndServeTLS(":"+port, certFile, keyFile, r)
	sigolo.FatalCheck(err)
}

func initRouter(store *storage.Store) *mux.Router {
	r := mux.NewRouter()
	r.Use(commonHeaderMiddleware)

	r.HandleFunc("/points", func(writer http.ResponseWriter, request *http.Request) {
		handleInsert(store, writer, request)
	}).Methods(http.MethodPost)
	r.HandleFunc("/points", func(writer http.ResponseWriter, request *http.Request) {
		handleRemove(store, writer, request)
	}).Methods(http.MethodDelete)
	r.HandleFunc("/query", func(writer http.ResponseWriter, request *http.Request) {
		handleQuery(store, writer, request)
	}).Methods(http.MethodGet)
	r.HandleFunc("/nodes", func(writer http.ResponseWriter, request *http.Request) {
		handleNodes(store, writer)
	}).Methods(http.MethodGet)
	r.HandleFunc("/stats", func(writer http.ResponseWriter, request *http.Request) {
		writeJson(writer, http.StatusOK, store.Stats())
	}).Methods(http.MethodGet)
	r.HandleFunc("/clear", func(writer http.ResponseWriter, request *http.Request) {
		sigolo.Info("Clear tree")
		store.Clear()
		writeJson(writer, http.StatusOK, store.Stats())
	}).Methods(http.MethodPost)
	r.HandleFunc("/compact", func(writer http.ResponseWriter, request *http.Request) {
		sigolo.Info("Compact tree")
		store.Compact()
		writeJson(writer, http.StatusOK, store.Stats())
	}).Methods(http.MethodPost)
	r.HandleFunc("/script", func(writer http.ResponseWriter, request *http.Request) {
		handleScript(store, writer, request)
	}).Methods(http.MethodPost)

	return r
}

func commonHeaderMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Access-Control-Allow-Origin", "*")
		writer.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(writer, request)
	})
}

func handleInsert(store *storage.Store, writer http.ResponseWriter, request *http.Request) {
	items, err := ownIo.ReadFeaturesFromGeoJson(request.Body)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error reading GeoJSON", err)
		return
	}

	inserted, err := store.InsertAll(items)
	if err != nil {
		writeError(writer, http.StatusBadRequest, fmt.Sprintf("Error inserting features, none of %d inserted", len(items)), err)
		return
	}

	sigolo.Debugf("Inserted %d features", inserted)
	writeJson(writer, http.StatusOK, InsertResponse{Inserted: inserted})
}

func handleRemove(store *storage.Store, writer http.ResponseWriter, request *http.Request) {
	x, err := strconv.ParseFloat(request.URL.Query().Get("x"), 64)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Parameter 'x' must be a number", err)
		return
	}
	y, err := strconv.ParseFloat(request.URL.Query().Get("y"), 64)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Parameter 'y' must be a number", err)
		return
	}

	removed := store.Remove(geometry.Point{X: x, Y: y}, feature.MatchID(request.URL.Query().Get("id")))

	sigolo.Debugf("Removed feature at [%f,%f]: %t", x, y, removed)
	writeJson(writer, http.StatusOK, RemoveResponse{Removed: removed})
}

func handleQuery(store *storage.Store, writer http.ResponseWriter, request *http.Request) {
	region, err := geometry.ParseRectangle(request.URL.Query().Get("bbox"))
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error parsing parameter 'bbox'", err)
		return
	}

	items := store.Query(region)
	sigolo.Debugf("Found %d features in %s", len(items), region.String())

	err = ownIo.WriteFeaturesAsGeoJson(items, writer)
	if err != nil {
		sigolo.Errorf("Error writing query result: %+v", err)
	}
}

func handleNodes(store *storage.Store, writer http.ResponseWriter) {
	err := store.Read(func(tree *feature.Tree) error {
		return ownIo.WriteNodesAsGeoJson(tree, writer)
	})
	if err != nil {
		sigolo.Errorf("Error writing tree nodes: %+v", err)
	}
}

func handleScript(store *storage.Store, writer http.ResponseWriter, request *http.Request) {
	scriptBytes, err := io.ReadAll(request.Body)
	if err != nil {
		writeError(writer, http.StatusInternalServerError, "Error reading HTTP body", err)
		return
	}

	scriptString := string(scriptBytes)
	trimmedScriptString := scriptString
	scriptRunes := []rune(scriptString)
	if len(scriptRunes) > maxLengthOfPrintedScript {
		trimmedScriptString = string(scriptRunes[:maxLengthOfPrintedScript]) + "... [truncated]"
	}
	sigolo.Infof("Script:\n%s", trimmedScriptString)

	parsedScript, err := script.ParseScript(scriptString)
	if err != nil {
		writeError(writer, http.StatusBadRequest, fmt.Sprintf("Error parsing script: %s", err.Error()), err)
		return
	}

	results, err := parsedScript.Execute(store)
	if err != nil {
		writeError(writer, http.StatusBadRequest, fmt.Sprintf("Error executing script: %s", err.Error()), err)
		return
	}

	response := make([]ScriptResultResponse, 0, len(results))
	for _, result := range results {
		resultResponse := ScriptResultResponse{
			Statement: result.Statement,
			Count:     result.Count,
			Output:    result.Output,
		}
		if result.Items != nil {
			resultResponse.Features = ownIo.ToFeatureCollection(result.Items)
		}
		response = append(response, resultResponse)
	}

	writeJson(writer, http.StatusOK, response)
}

func writeError(writer http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		sigolo.Errorf("%s: %+v", message, err)
	} else {
		sigolo.Debugf("%s: %s", message, err)
	}
	writeJson(writer, status, NewErrorResponse(message, err))
}

func writeJson(writer http.ResponseWriter, status int, value any) {
	responseBytes, err := json.Marshal(value)
	if err != nil {
		sigolo.Errorf("Error marshalling response object: %+v", err)
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(status)
	_, err = writer.Write(responseBytes)
	if err != nil {
		sigolo.Errorf("Error writing response: %+v", err)
	}
}
