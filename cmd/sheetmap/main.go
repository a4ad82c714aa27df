// Command sheetmap inspects table definitions inside spreadsheet packages:
// their ranges, their XML-map column bindings, and the common XPath that
// identifies the repeating row element of the mapped data.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/tidemill/sheetmap/core/digest"
	"github.com/tidemill/sheetmap/core/xmlmap"
	"github.com/tidemill/sheetmap/internal/catalog"
	"github.com/tidemill/sheetmap/internal/logging"
	"github.com/tidemill/sheetmap/internal/opc"
)

const version = "0.2.0"

// CLI defines the command-line interface for sheetmap.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	// Command groups (noun-first organization)
	Tables  TablesGroup  `cmd:"" help:"Table part operations (list, show, validate, rows)"`
	Catalog CatalogGroup `cmd:"" help:"Table catalog operations"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// TablesGroup contains table part operations.
type TablesGroup struct {
	List     TablesListCmd     `cmd:"" help:"List table parts in a workbook"`
	Show     TablesShowCmd     `cmd:"" help:"Show one table's bindings and derived facts"`
	Validate TablesValidateCmd `cmd:"" help:"Compile every binding XPath in a workbook"`
	Rows     TablesRowsCmd     `cmd:"" help:"Select row nodes of a mapped XML document"`
}

// CatalogGroup contains catalog operations.
type CatalogGroup struct {
	Index CatalogIndexCmd `cmd:"" help:"Index workbook tables into a catalog database"`
	List  CatalogListCmd  `cmd:"" help:"List cataloged tables"`
}

// TablesListCmd lists the table parts of a workbook.
type TablesListCmd struct {
	Workbook string `arg:"" help:"Path to workbook package" type:"existingfile"`
}

func (c *TablesListCmd) Run() error {
	pkg, err := opc.Open(c.Workbook)
	if err != nil {
		return err
	}
	refs, err := pkg.TableParts()
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		fmt.Println("no table parts")
		return nil
	}

	for _, ref := range refs {
		name, _ := ref.Table.Name()
		displayName, _ := ref.Table.DisplayName()
		rangeRef, ok := ref.Table.RangeRef()
		if !ok {
			rangeRef = "-"
		}
		fmt.Printf("%-24s %-24s %-12s rows=%-5s sheet=%s\n",
			name, displayName, rangeRef, rowCountLabel(ref.Table.RowCount()), ref.Sheet)
	}
	return nil
}

// TablesShowCmd shows one table in detail.
type TablesShowCmd struct {
	Workbook string `arg:"" help:"Path to workbook package" type:"existingfile"`
	Table    string `arg:"" help:"Table name or display name"`
}

func (c *TablesShowCmd) Run() error {
	pkg, err := opc.Open(c.Workbook)
	if err != nil {
		return err
	}
	ref, err := pkg.FindTable(c.Table)
	if err != nil {
		return err
	}

	data, err := pkg.Part(ref.PartName)
	if err != nil {
		return err
	}

	name, _ := ref.Table.Name()
	displayName, _ := ref.Table.DisplayName()
	rangeRef, _ := ref.Table.RangeRef()

	fmt.Printf("part:         %s (blake3 %s)\n", ref.PartName, digest.Short(data))
	fmt.Printf("sheet:        %s\n", ref.Sheet)
	fmt.Printf("name:         %s\n", name)
	fmt.Printf("display name: %s\n", displayName)
	fmt.Printf("ref:          %s\n", rangeRef)
	fmt.Printf("columns:      %d\n", ref.Table.ColumnCount())
	fmt.Printf("rows:         %s\n", rowCountLabel(ref.Table.RowCount()))
	fmt.Printf("common xpath: %s\n", ref.Table.CommonXPath())

	bindings := ref.Table.Bindings()
	if len(bindings) == 0 {
		fmt.Println("bindings:     none")
		return nil
	}

	reg, regErr := pkg.XMLMaps()
	fmt.Println("bindings:")
	for _, b := range bindings {
		mapLabel := strconv.Itoa(b.MapID)
		if regErr == nil {
			if m, ok := reg.Lookup(b.MapID); ok {
				mapLabel += " (" + m.Name + ")"
			}
		}
		fmt.Printf("  column %-3d map %-16s %s\n", b.Column, mapLabel, b.XPath)
	}
	return nil
}

// TablesValidateCmd compiles every binding XPath in the workbook.
type TablesValidateCmd struct {
	Workbook string `arg:"" help:"Path to workbook package" type:"existingfile"`
}

func (c *TablesValidateCmd) Run() error {
	pkg, err := opc.Open(c.Workbook)
	if err != nil {
		return err
	}
	refs, err := pkg.TableParts()
	if err != nil {
		return err
	}

	failed := 0
	for _, ref := range refs {
		label, _ := ref.Table.DisplayName()
		if label == "" {
			label = ref.PartName
		}
		if err := ref.Table.ValidateBindings(); err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", label, err)
			continue
		}
		fmt.Printf("ok   %s (%d bindings)\n", label, len(ref.Table.Bindings()))
	}
	if failed > 0 {
		return fmt.Errorf("%d table(s) with invalid bindings", failed)
	}
	return nil
}

// TablesRowsCmd applies a table's common XPath to a mapped XML document.
type TablesRowsCmd struct {
	Workbook string `arg:"" help:"Path to workbook package" type:"existingfile"`
	Table    string `arg:"" help:"Table name or display name"`
	XML      string `arg:"" help:"Path to the mapped XML document" type:"existingfile"`
}

func (c *TablesRowsCmd) Run() error {
	pkg, err := opc.Open(c.Workbook)
	if err != nil {
		return err
	}
	ref, err := pkg.FindTable(c.Table)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.XML)
	if err != nil {
		return err
	}
	nodes, err := xmlmap.RowNodes(data, ref.Table.CommonXPath())
	if err != nil {
		return err
	}

	fmt.Printf("%d row(s) at %s\n", len(nodes), ref.Table.CommonXPath())
	for i, node := range nodes {
		fmt.Printf("%4d  %s\n", i+1, strings.TrimSpace(node.OutputXML(true)))
	}
	return nil
}

// CatalogIndexCmd indexes workbooks into a catalog database.
type CatalogIndexCmd struct {
	DB        string   `arg:"" help:"Catalog database path" type:"path"`
	Workbooks []string `arg:"" help:"Workbook packages to index" type:"existingfile"`
}

func (c *CatalogIndexCmd) Run() error {
	cat, err := catalog.Open(c.DB)
	if err != nil {
		return err
	}
	defer cat.Close()

	total := 0
	for _, workbook := range c.Workbooks {
		pkg, err := opc.Open(workbook)
		if err != nil {
			return err
		}
		n, err := cat.Index(workbook, pkg)
		if err != nil {
			return err
		}
		total += n
		logging.Info("workbook_indexed", "workbook", workbook, "tables", n)
	}
	fmt.Printf("indexed %d table(s) from %d workbook(s)\n", total, len(c.Workbooks))
	return nil
}

// CatalogListCmd lists cataloged tables.
type CatalogListCmd struct {
	DB       string `arg:"" help:"Catalog database path" type:"existingfile"`
	Workbook string `help:"Filter by workbook path"`
}

func (c *CatalogListCmd) Run() error {
	cat, err := catalog.Open(c.DB)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.List(c.Workbook)
	if err != nil {
		return err
	}
	for _, e := range entries {
		xpath := e.CommonXPath
		if xpath == "" {
			xpath = "-"
		}
		fmt.Printf("%-32s %-24s %-12s maps=[%s] %s\n",
			e.Workbook, e.DisplayName, e.Ref, e.MapIDs, xpath)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("sheetmap %s\n", version)
	return nil
}

// rowCountLabel renders RowCount's -1 sentinel as "n/a".
func rowCountLabel(n int) string {
	if n < 0 {
		return "n/a"
	}
	return strconv.Itoa(n)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sheetmap"),
		kong.Description("Inspect spreadsheet table parts and their XML-map bindings"),
		kong.UsageOnError(),
	)

	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), format)

	ctx.FatalIfErrorf(ctx.Run())
}
