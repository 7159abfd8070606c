package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/contactgo"
	"github.com/hupe1980/contactgo/persistence"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <receptor.pdb> <ligand.pdb> <radius>\n", os.Args[0])
		os.Exit(2)
	}

	ctx := context.Background()

	receptor, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer receptor.Close()

	ligand, err := os.Open(os.Args[2])
	if err != nil {
		log.Fatal(err)
	}
	defer ligand.Close()

	metrics := &contactgo.BasicMetricsCollector{}

	cm, err := contactgo.FromReaders(receptor, ligand).
		Radius(os.Args[3]).
		Option(
			contactgo.WithLogLevel(slog.LevelInfo),
			contactgo.WithMetricsCollector(metrics),
			contactgo.WithCompression(persistence.CompressionZSTD),
		).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Calculate ---")
	start := time.Now()
	if err := cm.Calculate(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Took:", time.Since(start))

	contacts, err := cm.ContactMatrix()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Residue pairs in contact:", contacts.Count())

	bonds, err := cm.Contacts(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, bond := range bonds {
		fmt.Printf("%s -- %s\n", bond.A, bond.B)
	}

	if err := cm.Save(ctx, "contactmap.cmap"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Snapshot written to contactmap.cmap")

	stats := metrics.GetStats()
	fmt.Printf("calculate: %d cells in %s\n",
		stats.CalculateCells, time.Duration(stats.CalculateAvgNanos))
}
