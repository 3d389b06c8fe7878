package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-faker/faker/v4"
	"github.com/jobala/bplus/cli"
	"github.com/jobala/bplus/index"
)

var shouldSeed *bool
var seedNumRecords, order *int
var snapshotPath *string

func seedTreeWithTestRecords(tree *index.BplusTree[string, string]) {
	records := make(map[string]string, *seedNumRecords)
	for i := 0; i < *seedNumRecords; i++ {
		records[faker.Word()+faker.Word()] = faker.Word() + faker.Word()
	}
	tree.BatchInsert(records)
}

func main() {
	setupFlags()

	cfg := index.DefaultConfig()
	cfg.Order = *order

	tree, err := index.NewBplusTree[string, string](cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *shouldSeed {
		seedTreeWithTestRecords(tree)
	}

	if *snapshotPath != "" {
		header, err := tree.WriteSnapshotFile(*snapshotPath)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %d nodes to %s\n", header.NodeCount, *snapshotPath)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	demo := cli.NewCli(scanner, os.Stdout, tree)
	demo.Start()
}

func setupFlags() {
	order = flag.Int("order", index.DEFAULT_ORDER, "Maximum number of keys a node holds before it splits.")
	shouldSeed = flag.Bool("seed", false, "Seed the tree using records created with go-faker.")
	seedNumRecords = flag.Int("records", 1000, "Amount of records to seed the tree with upon startup.")
	snapshotPath = flag.String("snapshot", "", "Write a snapshot of the seeded tree to this file and exit.")
	flag.Usage = func() {
		fmt.Println("\nB+Tree CLI\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}
