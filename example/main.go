package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/zerolog"

	"github.com/mickamy/automap/automap"
	"github.com/mickamy/automap/document"
	"github.com/mickamy/automap/example/model"
	"github.com/mickamy/automap/schema"
)

func main() {
	dsn := flag.String("dsn", "file:example.db?mode=memory&cache=shared", "sqlite data source name")
	debug := flag.Bool("debug", false, "log every statement")
	flag.Parse()

	ctx := context.Background()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Domain types keep their fields private, so they go through the private model.
	pm := automap.NewPrivateAutoPersistenceModel(automap.WithLogger(logger.Level(zerolog.WarnLevel))).
		AddTypes(model.Customer{}, model.Order{}).
		Conventions(automap.StringLength(100)).
		Override("Order", func(cm *automap.ClassMap) error {
			return cm.RenameColumn("number", "order_number")
		})
	maps, err := pm.Build()
	if err != nil {
		log.Fatalf("build model: %v", err)
	}

	fmt.Println("--- MAPPING ---")
	out, err := document.Marshal(maps)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Print(string(out))

	fmt.Println("\n--- DDL ---")
	stmts, err := schema.CreateTables(schema.SQLite, maps)
	if err != nil {
		log.Fatalf("ddl: %v", err)
	}
	fmt.Println(strings.Join(stmts, ";\n\n") + ";")

	raw, err := sql.Open("sqlite", *dsn)
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	raw.SetMaxOpenConns(1)
	db := schema.New(raw, schema.SQLite)
	defer db.Close()
	if *debug {
		db = db.Debug(schema.ZerologLogger{Logger: logger})
	}

	fmt.Println("\n--- MIGRATE ---")
	if err := schema.Migrate(ctx, db, maps); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	fmt.Printf("Created %d tables.\n", len(stmts))

	fmt.Println("\n--- INSERT ---")
	customers, _ := pm.Find("Customer")
	orders, _ := pm.Find("Order")

	alice := model.NewCustomer("Alice", "alice@example.com", model.Address{Street: "1 Main St", City: "Springfield"}, time.Now())
	aliceID, err := insert(ctx, db, customers, map[string]any{
		"name":           alice.Name(),
		"email":          alice.Email(),
		"created_at":     alice.CreatedAt(),
		"address_street": alice.Address().Street,
		"address_city":   alice.Address().City,
	})
	if err != nil {
		log.Fatalf("insert customer: %v", err)
	}
	fmt.Printf("Customer %s id=%d\n", alice.Name(), aliceID)

	for i, total := range []float64{12.5, 30} {
		o := model.NewOrder(alice, fmt.Sprintf("A-%03d", i+1), total)
		id, err := insert(ctx, db, orders, map[string]any{
			"order_number": o.Number(),
			"total":        o.Total(),
			"customer_id":  aliceID,
		})
		if err != nil {
			log.Fatalf("insert order: %v", err)
		}
		fmt.Printf("Order %s id=%d\n", o.Number(), id)
	}

	fmt.Println("\n--- SELECT ---")
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		"SELECT c.name, o.order_number, o.total FROM %s o JOIN %s c ON c.id = o.customer_id ORDER BY o.id",
		orders.Table, customers.Table,
	))
	if err != nil {
		log.Fatalf("select: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name, number string
			total        float64
		)
		if err := rows.Scan(&name, &number, &total); err != nil {
			log.Fatalf("scan: %v", err)
		}
		fmt.Printf("  %s %s %.2f\n", name, number, total)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("rows: %v", err)
	}
}

// insert writes the values for the mapped columns of cm and returns the
// generated identity.
func insert(ctx context.Context, ex schema.Execer, cm *automap.ClassMap, values map[string]any) (int64, error) {
	var (
		cols []string
		args []any
	)
	for _, c := range cm.Columns() {
		v, ok := values[c]
		if !ok {
			continue
		}
		cols = append(cols, c)
		args = append(args, v)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		cm.Table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
