package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"mdvrp-planner/internal/adapters/distance"
	"mdvrp-planner/internal/adapters/repositories"
	"mdvrp-planner/internal/config"
	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/services"

	"github.com/joho/godotenv"
)

// plancheck validates the scenarios in a seed file offline and prints their
// depot-to-customer cost matrices. With -live the matrix comes from OSRM.
func main() {
	live := flag.Bool("live", false, "fetch distances from OSRM instead of the straight-line estimate")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	cfg := config.Load()

	path := cfg.SeedPath
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	scenarios, err := repositories.LoadSeedFile(path)
	if err != nil {
		log.Fatal(err)
	}

	var builder *services.CostMatrixBuilder
	if *live {
		osrm, err := distance.NewOSRMClient(cfg.OSRMURL, cfg.OSRMRPS)
		if err != nil {
			log.Fatal(err)
		}
		builder = services.NewCostMatrixBuilder(osrm, nil)
	}

	failed := false
	for _, sc := range scenarios {
		fmt.Printf("== %s (%d depots, %d customers, %d vehicles)\n",
			sc.Name, len(sc.Depots), len(sc.Customers), len(sc.Vehicles))

		report := services.NewFleetValidator(sc.Customers, sc.Depots, sc.Vehicles).ValidateAll()
		if !report.OK() {
			failed = true
			for _, v := range report {
				fmt.Println("  !", v)
			}
			continue
		}
		fmt.Println("  valid")

		matrix, source := services.FallbackMatrix(sc.Depots, sc.Customers), services.SourceFallback
		if builder != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			matrix, source = builder.Build(ctx, sc.Depots, sc.Customers)
			cancel()
		}
		printMatrix(sc, matrix, source)
	}

	if failed {
		os.Exit(1)
	}
}

func printMatrix(sc domain.Scenario, m domain.CostMatrix, source services.MatrixSource) {
	fmt.Printf("  cost matrix (meters, source=%s)\n", source)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, c := range sc.Customers {
		fmt.Fprintf(tw, "%s\t", c.Name)
	}
	fmt.Fprintln(tw)

	for i, d := range sc.Depots {
		fmt.Fprintf(tw, "%s\t", d.Name)
		for j := range sc.Customers {
			cell := "-"
			if v := m[i][j]; v != domain.Unreachable {
				cell = strconv.FormatFloat(v, 'f', 0, 64)
			}
			fmt.Fprintf(tw, "%s\t", cell)
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}
