package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudberries/mcdeck/mcdeck"
	"github.com/cloudberries/mcdeck/mcdeck/deck"
	"github.com/cloudberries/mcdeck/mcdeck/filter"
	"github.com/cloudberries/mcdeck/mcdeck/logger"
	"github.com/cloudberries/mcdeck/mcdeck/octgn"
)

var (
	version = "dev"
	commit  = "unknown"
)

const usageText = `Usage: mcdeck [flags] <command> [args]

Commands:
  export <deck.txt> <out.o8c>   export a card set text file as an .o8c archive
  install <set.o8c>             install a card set archive into the Data directory
  uninstall <set.o8c|set-id>    remove an installed card set
  check <set.o8c>               validate a card set archive without installing it
  init                          create a minimal OCTGN Data directory skeleton
  sets [query]                  list installed sets, or fuzzy-search card names
  query <expression>            filter installed cards with a query expression
  o8d <deck.o8d>                resolve an OCTGN deck list against installed sets
  fetch <deck-id>               fetch a published deck and print it as card set text

Flags:
`

func main() {
	// Initialize custom logger
	customHandler := logger.NewHandler(slog.LevelInfo)
	slog.SetDefault(slog.New(customHandler))

	path := flag.String("config", "config.toml", "path to config")
	dataPath := flag.String("data", "", "override the OCTGN Data directory")
	allCards := flag.Bool("all-cards", false, "fetch encounter packs as well as player cards")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := mcdeck.DefaultConfig()
	if _, err := os.Stat(*path); err == nil {
		cfg, err = mcdeck.LoadConfig(*path)
		if err != nil {
			slog.Error("Failed to load configuration", slog.Any("error", err))
			os.Exit(-1)
		}
	}
	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	if *dataPath != "" {
		cfg.Octgn.DataPath = *dataPath
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	app := mcdeck.New(*cfg, version)
	logger.LogSystem("Starting mcdeck",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("data_path", app.Sets.DataPath()))

	name := flag.Arg(0)
	args := flag.Args()[1:]
	start := time.Now()

	var err error
	switch name {
	case "export":
		err = runExport(app, args)
	case "install":
		err = runInstall(app, args)
	case "uninstall":
		err = runUninstall(app, args)
	case "check":
		err = runCheck(app, args)
	case "init":
		err = runInit(app, args)
	case "sets":
		err = runSets(app, args)
	case "query":
		err = runQuery(app, args)
	case "o8d":
		err = runO8D(app, args)
	case "fetch":
		err = runFetch(app, args, *allCards)
	default:
		flag.Usage()
		err = fmt.Errorf("unknown command %q", name)
	}

	logger.LogCommand(name, time.Since(start), err)
	if err != nil {
		os.Exit(-1)
	}
}

func runExport(app *mcdeck.App, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("export takes a deck file and an output path")
	}
	d, err := loadDeckFile(args[0])
	if err != nil {
		return err
	}
	if err := app.Sets.Load(false); err != nil {
		logger.LogError("Set database unavailable, exporting without it", err)
	}
	images := d.Images(app.Sets)
	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer out.Close()
	if err := octgn.ExportSet(&dbDeck{Deck: d, images: images}, images, out); err != nil {
		os.Remove(args[1])
		return err
	}
	logger.LogSet("Exported card set",
		slog.String("set_id", d.SetData().SetID()),
		slog.Int("cards", d.Len()),
		slog.String("file", args[1]))
	return nil
}

func runInstall(app *mcdeck.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("install takes a card set archive")
	}
	if err := octgn.ValidateDataPath(app.Sets.DataPath()); err != nil {
		return err
	}
	setID, err := octgn.InstallSetFile(app.Sets.DataPath(), args[0], app.Config.Octgn.AllowFanMadeNonO8D)
	if err != nil {
		return err
	}
	app.Sets.Reset()
	logger.LogSet("Installed card set", slog.String("set_id", setID))
	return nil
}

func runUninstall(app *mcdeck.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("uninstall takes a card set archive or a set id")
	}
	if err := octgn.ValidateDataPath(app.Sets.DataPath()); err != nil {
		return err
	}
	var setID string
	var err error
	if _, statErr := os.Stat(args[0]); statErr == nil {
		setID, err = octgn.UninstallSetFile(app.Sets.DataPath(), args[0], app.Config.Octgn.AllowFanMadeNonO8D)
	} else {
		setID = strings.ToLower(args[0])
		err = octgn.UninstallSet(app.Sets.DataPath(), setID)
	}
	if err != nil {
		return err
	}
	app.Sets.Reset()
	logger.LogSet("Uninstalled card set", slog.String("set_id", setID))
	return nil
}

func runCheck(app *mcdeck.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("check takes a card set archive")
	}
	info, err := octgn.ValidateSetFile(args[0], app.Config.Octgn.AllowFanMadeNonO8D)
	if err != nil {
		return err
	}
	fmt.Printf("%s: set %s, %d fan-made deck list(s)\n",
		filepath.Base(args[0]), info.SetID, len(info.FanMade))
	return nil
}

func runInit(app *mcdeck.App, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("init takes no arguments")
	}
	if err := octgn.CreateVirtualDataPath(app.Sets.DataPath()); err != nil {
		return err
	}
	logger.LogSet("Created Data directory skeleton",
		slog.String("path", app.Sets.DataPath()))
	return nil
}

func runSets(app *mcdeck.App, args []string) error {
	if err := app.Sets.Load(false); err != nil {
		return err
	}
	if len(args) == 0 {
		for _, set := range app.Sets.Sets() {
			fmt.Printf("%s  %-30s %d card(s)\n", set.Data.SetID(), set.Data.Name(), len(set.Cards))
		}
		return nil
	}
	query := strings.Join(args, " ")
	for _, card := range app.Sets.SearchNames(query, 25) {
		fmt.Printf("%s  %s\n", card.ImageID(), card.Name())
	}
	return nil
}

func runQuery(app *mcdeck.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("query takes a filter expression")
	}
	if err := app.Sets.Load(false); err != nil {
		return err
	}
	var entries []filter.Entry
	for _, set := range app.Sets.Sets() {
		entries = append(entries, filter.Entry{Set: set.Data, Cards: set.Cards})
	}
	matched, err := filter.Apply(entries, strings.Join(args, " "))
	if err != nil {
		return err
	}
	for _, entry := range matched {
		for _, card := range entry.Cards {
			fmt.Printf("%s  %-30s [%s]\n", card.ImageID(), card.Name(), entry.Set.Name())
		}
	}
	return nil
}

func runO8D(app *mcdeck.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("o8d takes a deck list file")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	list, err := octgn.DecodeO8D(f)
	if err != nil {
		return err
	}
	if err := app.Sets.Load(false); err != nil {
		return err
	}
	resolved, missing, err := app.Sets.ResolveO8D(list)
	if err != nil {
		return err
	}
	for _, m := range missing {
		logger.LogError("Card not in any installed set",
			fmt.Errorf("card %s (%s) not found", m.ID, m.Name))
	}
	setName := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	set, err := octgn.NewCardSetData(setName, "")
	if err != nil {
		return err
	}
	var cards []*octgn.CardData
	for _, rc := range resolved {
		for i := 0; i < rc.Qty; i++ {
			cards = append(cards, rc.Card)
		}
	}
	text, err := set.Encode(cards, true)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

func runFetch(app *mcdeck.App, args []string, allCards bool) error {
	if len(args) != 1 {
		return fmt.Errorf("fetch takes a deck id")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := app.Client.LoadCards(ctx, allCards); err != nil {
		return err
	}
	fetched, err := app.Client.LoadDeck(ctx, args[0])
	if err != nil {
		return err
	}
	set, err := octgn.NewCardSetData(fetched.Name, "")
	if err != nil {
		return err
	}
	var cards []*octgn.CardData
	for _, entry := range fetched.Cards {
		data, err := app.Client.OctgnCard(entry.Card)
		if err != nil {
			return err
		}
		for i := 0; i < entry.Qty; i++ {
			cards = append(cards, data)
		}
	}
	text, err := set.Encode(cards, true)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

func loadDeckFile(path string) (*deck.Deck, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return deck.Decode(string(text), true)
}

// dbDeck presents a deck whose alternate card sides count as backed by
// an image when the image provider can serve them. Card set text files
// carry no image paths, so export validation consults the provider.
type dbDeck struct {
	*deck.Deck
	images octgn.ImageProvider
}

func (d *dbDeck) Cards() []octgn.CardView {
	views := d.Deck.Cards()
	out := make([]octgn.CardView, len(views))
	for i, v := range views {
		out[i] = dbCard{CardView: v, images: d.images}
	}
	return out
}

type dbCard struct {
	octgn.CardView
	images octgn.ImageProvider
}

func (c dbCard) HasBackImage() bool {
	if c.CardView.HasBackImage() {
		return true
	}
	data := c.Data()
	if data == nil {
		return false
	}
	if alt := data.Alt(); alt != nil {
		_, ok := c.images.CardImage(alt.ImageID())
		return ok
	}
	return false
}
