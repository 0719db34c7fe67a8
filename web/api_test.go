package web

import (
	"encoding/json"
	"github.com/paulmach/orb/geojson"
	"net/http"
	"net/http/httptest"
	"sqt/common"
	"sqt/feature"
	"sqt/geometry"
	"sqt/storage"
	"strings"
	"testing"
)

const testFeatures = `{"type":"FeatureCollection","features":[
	{"type":"Feature","id":"a","geometry":{"type":"Point","coordinates":[10,10]},"properties":{"amenity":"bench"}},
	{"type":"Feature","id":"b","geometry":{"type":"Point","coordinates":[60,60]},"properties":{}},
	{"type":"Feature","id":"c","geometry":{"type":"Point","coordinates":[100,100]},"properties":{}}
]}`

func newTestRouter(t *testing.T) (http.Handler, *storage.Store) {
	tree, err := feature.NewTree(geometry.NewRectangleFromCorners(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 100}), 1, 8)
	common.AssertNil(t, err)
	store := storage.NewStore(tree, 10)
	return initRouter(store), store
}

func serve(handler http.Handler, method string, target string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestApi_insertAndQuery(t *testing.T) {
	// Arrange
	router, store := newTestRouter(t)

	// Act
	insertResponse := serve(router, http.MethodPost, "/points", testFeatures)
	queryResponse := serve(router, http.MethodGet, "/query?bbox=0,0,50,50", "")
	fullQueryResponse := serve(router, http.MethodGet, "/query?bbox=0,0,100,100", "")

	// Assert
	common.AssertEqual(t, http.StatusOK, insertResponse.Code)
	common.AssertEqual(t, `{"inserted":3}`, insertResponse.Body.String())
	common.AssertEqual(t, "*", insertResponse.Header().Get("Access-Control-Allow-Origin"))
	common.AssertEqual(t, 3, store.Len())

	common.AssertEqual(t, http.StatusOK, queryResponse.Code)
	collection, err := geojson.UnmarshalFeatureCollection(queryResponse.Body.Bytes())
	common.AssertNil(t, err)
	common.AssertLen(t, 1, collection.Features)
	common.AssertEqual(t, "a", collection.Features[0].ID)
	common.AssertEqual(t, "bench", collection.Features[0].Properties["amenity"])

	collection, err = geojson.UnmarshalFeatureCollection(fullQueryResponse.Body.Bytes())
	common.AssertNil(t, err)
	common.AssertLen(t, 3, collection.Features)
}

func TestApi_insertOutOfBounds(t *testing.T) {
	// Arrange
	router, store := newTestRouter(t)
	body := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[101,1]},"properties":{}}
	]}`

	// Act
	response := serve(router, http.MethodPost, "/points", body)

	// Assert
	common.AssertEqual(t, http.StatusBadRequest, response.Code)
	errorResponse := map[string]interface{}{}
	common.AssertNil(t, json.Unmarshal(response.Body.Bytes(), &errorResponse))
	common.AssertEqual(t, "Error inserting features, none of 2 inserted", errorResponse["error"])
	common.AssertEqual(t, 0, store.Len())
}

func TestApi_insertInvalidGeoJson(t *testing.T) {
	router, _ := newTestRouter(t)

	response := serve(router, http.MethodPost, "/points", "{")

	common.AssertEqual(t, http.StatusBadRequest, response.Code)
}

func TestApi_queryInvalidBbox(t *testing.T) {
	router, _ := newTestRouter(t)

	common.AssertEqual(t, http.StatusBadRequest, serve(router, http.MethodGet, "/query?bbox=1,2,3", "").Code)
	common.AssertEqual(t, http.StatusBadRequest, serve(router, http.MethodGet, "/query?bbox=1,2,a,4", "").Code)
	common.AssertEqual(t, http.StatusBadRequest, serve(router, http.MethodGet, "/query?bbox=5,5,1,1", "").Code)
	common.AssertEqual(t, http.StatusBadRequest, serve(router, http.MethodGet, "/query", "").Code)
}

func TestApi_remove(t *testing.T) {
	// Arrange
	router, store := newTestRouter(t)
	serve(router, http.MethodPost, "/points", testFeatures)

	// Act
	wrongIdResponse := serve(router, http.MethodDelete, "/points?x=10&y=10&id=b", "")
	response := serve(router, http.MethodDelete, "/points?x=10&y=10&id=a", "")
	invalidResponse := serve(router, http.MethodDelete, "/points?x=foo&y=10", "")

	// Assert
	common.AssertEqual(t, `{"removed":false}`, wrongIdResponse.Body.String())
	common.AssertEqual(t, `{"removed":true}`, response.Body.String())
	common.AssertEqual(t, http.StatusBadRequest, invalidResponse.Code)
	common.AssertEqual(t, 2, store.Len())
}

func TestApi_statsCompactAndClear(t *testing.T) {
	// Arrange
	router, _ := newTestRouter(t)
	serve(router, http.MethodPost, "/points", testFeatures)
	serve(router, http.MethodDelete, "/points?x=10&y=10", "")
	serve(router, http.MethodDelete, "/points?x=60&y=60", "")

	// Act
	statsResponse := serve(router, http.MethodGet, "/stats", "")
	compactResponse := serve(router, http.MethodPost, "/compact", "")
	clearResponse := serve(router, http.MethodPost, "/clear", "")

	// Assert
	stats := storage.Stats{}
	common.AssertNil(t, json.Unmarshal(statsResponse.Body.Bytes(), &stats))
	common.AssertEqual(t, 1, stats.Items)
	common.AssertEqual(t, 9, stats.Nodes)
	common.AssertEqual(t, 1, stats.Capacity)
	common.AssertEqual(t, geometry.Point{X: 100, Y: 100}, stats.Bounds.Max)

	common.AssertNil(t, json.Unmarshal(compactResponse.Body.Bytes(), &stats))
	common.AssertEqual(t, 1, stats.Items)
	common.AssertEqual(t, 1, stats.Nodes)

	common.AssertNil(t, json.Unmarshal(clearResponse.Body.Bytes(), &stats))
	common.AssertEqual(t, 0, stats.Items)
}

func TestApi_nodes(t *testing.T) {
	// Arrange
	router, _ := newTestRouter(t)
	serve(router, http.MethodPost, "/points", testFeatures)

	// Act
	response := serve(router, http.MethodGet, "/nodes", "")

	// Assert
	common.AssertEqual(t, http.StatusOK, response.Code)
	collection, err := geojson.UnmarshalFeatureCollection(response.Body.Bytes())
	common.AssertNil(t, err)
	common.AssertTrue(t, len(collection.Features) > 1)
	common.AssertEqual(t, 0.0, collection.Features[0].Properties["depth"])
}

func TestApi_script(t *testing.T) {
	// Arrange
	router, _ := newTestRouter(t)

	// Act
	response := serve(router, http.MethodPost, "/script", "insert(1, 1) { @id=x } query(0, 0, 10, 10) count()")

	// Assert
	common.AssertEqual(t, http.StatusOK, response.Code)
	var results []ScriptResultResponse
	common.AssertNil(t, json.Unmarshal(response.Body.Bytes(), &results))
	common.AssertLen(t, 3, results)
	common.AssertEqual(t, "insert(1, 1){@id=x}", results[0].Statement)
	common.AssertLen(t, 1, results[1].Features.Features)
	common.AssertEqual(t, "x", results[1].Features.Features[0].ID)
	common.AssertEqual(t, 1, results[2].Count)
}

func TestApi_scriptParsingError(t *testing.T) {
	router, _ := newTestRouter(t)

	response := serve(router, http.MethodPost, "/script", "insert(1")

	common.AssertEqual(t, http.StatusBadRequest, response.Code)
}

func TestApi_wrongMethod(t *testing.T) {
	router, _ := newTestRouter(t)

	response := serve(router, http.MethodGet, "/clear", "")

	common.AssertEqual(t, http.StatusMethodNotAllowed, response.Code)
}
