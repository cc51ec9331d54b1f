package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"meathouse/internal/config"
	"meathouse/internal/logging"
	"meathouse/internal/reports"
	"meathouse/internal/store"
)

const usage = `usage: meathouse <command> [args]

products commands:
  products                                  list products
  add-product <name> <price> [stock]        add a product
  update-product <id> <name> <price> <stock>
  delete-product <id>

raw materials:
  materials                                 list raw materials
  add-material <name> <quantity>

production log:
  add-production <product-id> <qty> <YYYY-MM-DD>
  production [start end]                    history, optionally bounded

sales log:
  add-sale <product-id> <qty> <YYYY-MM-DD>
  sales [start end]                         history, optionally bounded

reports (pass -o file.xlsx to export instead of printing):
  sales-report [-o file] <start> <end>
  production-report [-o file] <start> <end>
  stock-report [-o file]
`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logging.Setup(cfg.LogMode, cfg.LogFile)
	defer func() { _ = zap.L().Sync() }()

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		zap.S().Fatalf("open store: %v", err)
	}
	defer func() { _ = st.Close() }()

	if err := run(st, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(st *store.Store, command string, args []string) error {
	gen := reports.NewGenerator(st)
	switch command {
	case "products":
		return listProducts(st)
	case "add-product":
		return addProduct(st, args)
	case "update-product":
		return updateProduct(st, args)
	case "delete-product":
		return deleteProduct(st, args)
	case "materials":
		return listMaterials(st)
	case "add-material":
		return addMaterial(st, args)
	case "add-production":
		return addProduction(st, args)
	case "production":
		return listProduction(st, args)
	case "add-sale":
		return addSale(st, args)
	case "sales":
		return listSales(st, args)
	case "sales-report":
		return salesReport(gen, args)
	case "production-report":
		return productionReport(gen, args)
	case "stock-report":
		return stockReport(gen, args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func listProducts(st *store.Store) error {
	products, err := st.GetProducts()
	if err != nil {
		return err
	}
	w := newTable()
	fmt.Fprintln(w, "ID\tName\tPrice\tStock")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	return w.Flush()
}

func addProduct(st *store.Store, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: add-product <name> <price> [stock]")
	}
	price, err := cast.ToFloat64E(args[1])
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	stock := 0
	if len(args) == 3 {
		if stock, err = cast.ToIntE(args[2]); err != nil {
			return fmt.Errorf("stock: %w", err)
		}
	}
	id, err := st.AddProduct(args[0], price, stock)
	if err != nil {
		return err
	}
	fmt.Printf("added product %d\n", id)
	return nil
}

func updateProduct(st *store.Store, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: update-product <id> <name> <price> <stock>")
	}
	id, err := cast.ToUintE(args[0])
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	price, err := cast.ToFloat64E(args[2])
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	stock, err := cast.ToIntE(args[3])
	if err != nil {
		return fmt.Errorf("stock: %w", err)
	}
	return st.UpdateProduct(id, args[1], price, stock)
}

func deleteProduct(st *store.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete-product <id>")
	}
	id, err := cast.ToUintE(args[0])
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	return st.DeleteProduct(id)
}

func listMaterials(st *store.Store) error {
	materials, err := st.GetRawMaterials()
	if err != nil {
		return err
	}
	w := newTable()
	fmt.Fprintln(w, "ID\tName\tQuantity")
	for _, m := range materials {
		fmt.Fprintf(w, "%d\t%s\t%d\n", m.ID, m.Name, m.Quantity)
	}
	return w.Flush()
}

func addMaterial(st *store.Store, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: add-material <name> <quantity>")
	}
	qty, err := cast.ToIntE(args[1])
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	id, err := st.AddRawMaterial(args[0], qty)
	if err != nil {
		return err
	}
	fmt.Printf("added raw material %d\n", id)
	return nil
}

func addProduction(st *store.Store, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: add-production <product-id> <qty> <YYYY-MM-DD>")
	}
	productID, err := cast.ToUintE(args[0])
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	qty, err := cast.ToIntE(args[1])
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	id, err := st.AddProduction(productID, qty, args[2])
	if err != nil {
		return err
	}
	fmt.Printf("recorded production %d\n", id)
	return nil
}

func listProduction(st *store.Store, args []string) error {
	var entries []store.ProductionEntry
	var err error
	switch len(args) {
	case 0:
		entries, err = st.GetProduction()
	case 2:
		entries, err = st.GetProductionByPeriod(args[0], args[1])
	default:
		return fmt.Errorf("usage: production [start end]")
	}
	if err != nil {
		return err
	}
	w := newTable()
	fmt.Fprintln(w, "ID\tProduct\tQuantity\tDate")
	total := 0
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", e.ID, e.ProductName, e.Quantity, e.Date)
		total += e.Quantity
	}
	fmt.Fprintf(w, "\tTotal\t%d\t\n", total)
	return w.Flush()
}

func addSale(st *store.Store, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: add-sale <product-id> <qty> <YYYY-MM-DD>")
	}
	productID, err := cast.ToUintE(args[0])
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	qty, err := cast.ToIntE(args[1])
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	id, err := st.AddSale(productID, qty, args[2])
	if err != nil {
		return err
	}
	fmt.Printf("recorded sale %d\n", id)
	return nil
}

func listSales(st *store.Store, args []string) error {
	var entries []store.SaleEntry
	var err error
	switch len(args) {
	case 0:
		entries, err = st.GetSales()
	case 2:
		entries, err = st.GetSalesByPeriod(args[0], args[1])
	default:
		return fmt.Errorf("usage: sales [start end]")
	}
	if err != nil {
		return err
	}
	w := newTable()
	fmt.Fprintln(w, "ID\tProduct\tQuantity\tPrice\tDate")
	totalQty := 0
	totalAmount := 0.0
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%s\n", e.ID, e.ProductName, e.Quantity, e.Price, e.Date)
		totalQty += e.Quantity
		totalAmount += float64(e.Quantity) * e.Price
	}
	fmt.Fprintf(w, "\tTotal\t%d\t%.2f\t\n", totalQty, totalAmount)
	return w.Flush()
}

// parseReportArgs splits an optional -o flag from the positional period args.
func parseReportArgs(name string, args []string, positional int) (out string, rest []string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&out, "o", "", "write the report to this .xlsx file instead of printing")
	if err := fs.Parse(args); err != nil {
		return "", nil, err
	}
	rest = fs.Args()
	if len(rest) != positional {
		return "", nil, fmt.Errorf("usage: %s [-o file.xlsx] with %d date argument(s)", name, positional)
	}
	return out, rest, nil
}

func salesReport(gen *reports.Generator, args []string) error {
	out, period, err := parseReportArgs("sales-report", args, 2)
	if err != nil {
		return err
	}
	rows, err := gen.SalesReport(period[0], period[1])
	if err != nil {
		return err
	}
	if out != "" {
		return reports.ExportSalesXLSX(out, rows)
	}
	w := newTable()
	fmt.Fprintln(w, "Product\tQuantity\tRevenue\tUnit price")
	totalQty := 0
	totalRevenue := 0.0
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\n", r.ProductName, r.TotalQuantity, r.TotalRevenue, r.UnitPrice)
		totalQty += r.TotalQuantity
		totalRevenue += r.TotalRevenue
	}
	fmt.Fprintf(w, "Total\t%d\t%.2f\t\n", totalQty, totalRevenue)
	return w.Flush()
}

func productionReport(gen *reports.Generator, args []string) error {
	out, period, err := parseReportArgs("production-report", args, 2)
	if err != nil {
		return err
	}
	rows, err := gen.ProductionReport(period[0], period[1])
	if err != nil {
		return err
	}
	if out != "" {
		return reports.ExportProductionXLSX(out, rows)
	}
	w := newTable()
	fmt.Fprintln(w, "Product\tQuantity\tDate")
	total := 0
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.ProductName, r.TotalQuantity, r.Date)
		total += r.TotalQuantity
	}
	fmt.Fprintf(w, "Total\t%d\t\n", total)
	return w.Flush()
}

func stockReport(gen *reports.Generator, args []string) error {
	out, _, err := parseReportArgs("stock-report", args, 0)
	if err != nil {
		return err
	}
	report, err := gen.StockReport()
	if err != nil {
		return err
	}
	if out != "" {
		return reports.ExportStockXLSX(out, report)
	}
	w := newTable()
	fmt.Fprintln(w, "Kind\tName\tQuantity")
	for _, p := range report.Products {
		fmt.Fprintf(w, "product\t%s\t%d\n", p.Name, p.Stock)
	}
	for _, m := range report.Materials {
		fmt.Fprintf(w, "material\t%s\t%d\n", m.Name, m.Quantity)
	}
	return w.Flush()
}
