package main

import (
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	"math/rand"
	"os"
	"sqt/feature"
	"sqt/geometry"
	"sqt/importing"
	ownIo "sqt/io"
	"sqt/script"
	"sqt/storage"
	"sqt/web"
	"strings"
)

const VERSION = "v0.1.0"

type TreeOptions struct {
	Bounds     string `help:"Bounds of the tree as minX,minY,maxX,maxY." default:"0,0,100,100"`
	Capacity   int    `help:"Number of items a node stores before it subdivides." default:"4"`
	MaxDepth   int    `help:"Depth at which nodes stop subdividing." default:"8" name:"max-depth"`
	Autosize   bool   `help:"Use the extent of the input file as bounds of the tree."`
	TaggedOnly bool   `help:"Only import features with at least one tag or property." name:"tagged-only"`
}

var cli struct {
	Logging string          `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info"`
	Version VersionFlag     `help:"Print version information and quit" name:"version" short:"v"`
	Config  kong.ConfigFlag `help:"JSON file with default values for all flags." placeholder:"<config-file>"`
	Tree    TreeOptions     `embed:"" prefix:""`

	Run struct {
		Script string `help:"The script file." placeholder:"<script-file>" arg:"" type:"existingfile"`
		Input  string `help:"An .osm, .pbf or .geojson file to import before running the script." placeholder:"<input-file>" type:"existingfile"`
		Output string `help:"GeoJSON file receiving the results of all queries." placeholder:"<output-file>" type:"path"`
	} `cmd:"" help:"Runs a script of insert, query and remove statements."`
	Import struct {
		Input  string `help:"The input file. Either .osm, .pbf or .geojson." placeholder:"<input-file>" arg:"" type:"existingfile"`
		Output string `help:"GeoJSON file receiving all imported features." placeholder:"<output-file>" type:"path"`
		Nodes  string `help:"GeoJSON file receiving the bounds of all tree nodes." placeholder:"<nodes-file>" type:"path"`
	} `cmd:"" help:"Imports the given file into a tree and prints statistics about it."`
	Serve struct {
		Input     string `help:"An .osm, .pbf or .geojson file to import on startup." placeholder:"<input-file>" type:"existingfile"`
		Port      string `help:"The port to listen on." default:"8080"`
		CacheSize int    `help:"Number of cached query results. 0 disables the cache." default:"100" name:"cache-size"`
		TlsCert   string `help:"Certificate file for TLS." name:"tls-cert" type:"existingfile"`
		TlsKey    string `help:"Key file for TLS." name:"tls-key" type:"existingfile"`
	} `cmd:"" help:"Starts an HTTP server providing the tree."`
	Demo struct {
		Points int   `help:"Number of random points to insert." default:"20"`
		Seed   int64 `help:"Seed for the random points." default:"1"`
	} `cmd:"" help:"Inserts random points into a tree, queries it and prints the tree."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("sqt"),
		kong.Description("A simple in-memory quadtree for point data."),
		kong.Configuration(kong.JSON, "sqt.json", "~/.config/sqt.json"),
		kong.Vars{
			"version": VERSION,
		},
	)

	if strings.ToLower(cli.Logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(cli.Logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(cli.Logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", cli.Logging)
	}

	switch ctx.Command() {
	case "run <script>":
		tree := createTree(cli.Run.Input)
		runScript(cli.Run.Script, storage.NewStore(tree, 0), cli.Run.Output)
	case "import <input>":
		tree := createTree(cli.Import.Input)
		printStats(storage.NewStore(tree, 0))
		writeImportOutput(tree, cli.Import.Output, cli.Import.Nodes)
	case "serve":
		tree := createTree(cli.Serve.Input)
		store := storage.NewStore(tree, cli.Serve.CacheSize)
		if cli.Serve.TlsCert != "" && cli.Serve.TlsKey != "" {
			web.StartServerTls(cli.Serve.Port, cli.Serve.TlsCert, cli.Serve.TlsKey, store)
		} else {
			web.StartServer(cli.Serve.Port, store)
		}
	case "demo":
		runDemo(createTree(""), cli.Demo.Points, cli.Demo.Seed)
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}

// createTree creates the tree configured by the global flags and imports the input file into it, if given.
func createTree(inputFile string) *feature.Tree {
	options := cli.Tree

	if inputFile != "" && options.Autosize {
		tree, _, err := importing.ImportAutosized(inputFile, options.Capacity, options.MaxDepth, options.TaggedOnly)
		sigolo.FatalCheck(err)
		return tree
	}

	bounds, err := geometry.ParseRectangle(options.Bounds)
	sigolo.FatalCheck(err)

	tree, err := feature.NewTree(bounds, options.Capacity, options.MaxDepth)
	sigolo.FatalCheck(err)

	if inputFile != "" {
		_, err = importing.Import(inputFile, tree, options.TaggedOnly)
		sigolo.FatalCheck(err)
	}

	return tree
}

func runScript(scriptFile string, store *storage.Store, outputFile string) {
	scriptBytes, err := os.ReadFile(scriptFile)
	sigolo.FatalCheck(err)

	parsedScript, err := script.ParseScript(string(scriptBytes))
	sigolo.FatalCheck(err)

	results, err := parsedScript.Execute(store)
	sigolo.FatalCheck(err)

	var queriedItems []feature.Item
	for _, result := range results {
		sigolo.Infof("%s -> %d", result.Statement, result.Count)
		for _, item := range result.Items {
			sigolo.Infof("  %s %s", item.Point.String(), item.Value.String())
		}
		if result.Output != "" {
			fmt.Print(result.Output)
		}
		queriedItems = append(queriedItems, result.Items...)
	}

	if outputFile != "" {
		err = ownIo.WriteFeaturesAsGeoJsonFile(queriedItems, outputFile)
		sigolo.FatalCheck(err)
		sigolo.Infof("Wrote %d queried features to %s", len(queriedItems), outputFile)
	}
}

func printStats(store *storage.Store) {
	stats := store.Stats()
	sigolo.Infof("Bounds:   %s", stats.Bounds.String())
	sigolo.Infof("Capacity: %d", stats.Capacity)
	sigolo.Infof("MaxDepth: %d", stats.MaxDepth)
	sigolo.Infof("Items:    %d", stats.Items)
	sigolo.Infof("Nodes:    %d", stats.Nodes)
	sigolo.Infof("Height:   %d", stats.Height)
}

func writeImportOutput(tree *feature.Tree, outputFile string, nodesFile string) {
	if outputFile != "" {
		err := ownIo.WriteFeaturesAsGeoJsonFile(tree.All(), outputFile)
		sigolo.FatalCheck(err)
	}

	if nodesFile != "" {
		file, err := os.Create(nodesFile)
		sigolo.FatalCheck(err)
		defer file.Close()

		err = ownIo.WriteNodesAsGeoJson(tree, file)
		sigolo.FatalCheck(err)
	}
}

// runDemo inserts the points of a fixed example followed by random points and queries the quadrants of the tree.
func runDemo(tree *feature.Tree, numberOfPoints int, seed int64) {
	store := storage.NewStore(tree, 0)
	bounds := store.Bounds()

	var statements []string
	for i, v := range []float64{0.1, 0.2, 0.3, 0.4, 0.6} {
		x := bounds.Min.X + v*bounds.Width()
		y := bounds.Min.Y + v*bounds.Height()
		statements = append(statements, fmt.Sprintf("insert(%s, %s) { @id=example%d }", geometry.FormatCoordinate(x), geometry.FormatCoordinate(y), i))
	}

	random := rand.New(rand.NewSource(seed))
	for i := 0; i < numberOfPoints; i++ {
		x := bounds.Min.X + random.Float64()*bounds.Width()
		y := bounds.Min.Y + random.Float64()*bounds.Height()
		statements = append(statements, fmt.Sprintf("insert(%s, %s) { @id=random%d }", geometry.FormatCoordinate(x), geometry.FormatCoordinate(y), i))
	}

	for _, q := range geometry.Quadrants {
		region := bounds.Quadrant(q)
		statements = append(statements, fmt.Sprintf("query(%s, %s, %s, %s)",
			geometry.FormatCoordinate(region.Min.X), geometry.FormatCoordinate(region.Min.Y),
			geometry.FormatCoordinate(region.Max.X), geometry.FormatCoordinate(region.Max.Y)))
	}
	statements = append(statements, "count()", "dump()")

	parsedScript, err := script.ParseScript(strings.Join(statements, "\n"))
	sigolo.FatalCheck(err)

	results, err := parsedScript.Execute(store)
	sigolo.FatalCheck(err)

	for _, result := range results {
		if result.Output != "" {
			fmt.Print(result.Output)
		} else {
			sigolo.Infof("%s -> %d", result.Statement, result.Count)
		}
	}
}
