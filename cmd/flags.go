package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gngeo/internal/iocache"
	"github.com/gnames/gngeo/internal/iodb"
	gngeo "github.com/gnames/gngeo/pkg"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/search"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", gngeo.Version, gngeo.Build)
		os.Exit(0)
	}
}

// parsePoint reads "lat,lon".
func parsePoint(s string) (search.Point, error) {
	fs, err := parseFloats(s, 2)
	if err != nil {
		return search.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	pt := search.Point{Lat: fs[0], Lon: fs[1]}
	return pt, pt.Validate()
}

// parseBBox reads "north,east,south,west".
func parseBBox(s string) (search.BBox, error) {
	fs, err := parseFloats(s, 4)
	if err != nil {
		return search.BBox{}, fmt.Errorf("bounding box %q: %w", s, err)
	}
	box := search.BBox{North: fs[0], East: fs[1], South: fs[2], West: fs[3]}
	return box, box.Validate()
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers", n)
	}
	res := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		res[i] = f
	}
	return res, nil
}

// parseCodePath splits "CC.A1.A2" into a country code and admin codes.
func parseCodePath(s string) (string, []string, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	cc := strings.ToUpper(parts[0])
	if len(cc) != 2 {
		return "", nil, fmt.Errorf("code path %q: country code %q", s, cc)
	}
	codes := parts[1:]
	for _, c := range codes {
		if c == "" {
			return "", nil, fmt.Errorf("code path %q: empty admin code", s)
		}
	}
	return cc, codes, nil
}

// connect opens the configured store.
func connect(ctx context.Context) (db.Operator, error) {
	op, err := iodb.NewOperator(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	return op, nil
}

// connectSchema opens the store and makes sure the schema exists.
func connectSchema(ctx context.Context) (db.Operator, error) {
	op, err := connect(ctx)
	if err != nil {
		return nil, err
	}
	hasTables, err := op.HasTables(ctx)
	if err != nil {
		op.Close()
		return nil, err
	}
	if !hasTables {
		op.Close()
		return nil, iodb.EmptyDatabaseError(cfg.Database.Database)
	}
	return op, nil
}

// openCache returns the search cache or nil when caching is disabled or
// Redis cannot be reached.
func openCache(ctx context.Context) *iocache.Cache {
	if cfg.Cache.Addr == "" {
		return nil
	}
	c, err := iocache.New(ctx, &cfg.Cache)
	if err != nil {
		gn.Warn("Search cache is disabled: <em>%s</em>", err)
		return nil
	}
	return c
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	bs, err := gnfmt.GNjson{Pretty: true}.Encode(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bs))
	return err
}

// stdin answers confirmation prompts.
var stdin io.Reader = os.Stdin

// confirm asks a yes/no question.
func confirm(r io.Reader, question string) (bool, error) {
	fmt.Printf("\n%s (yes/no): ", question)
	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}
