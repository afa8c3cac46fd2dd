package miniapp_test

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/miniapp"
)

type Task struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

func (t Task) RecordID() int { return t.ID }

// Example_basic demonstrates how to save a collection to its default file and load it back.
func Example_basic() {
	// Create a temporary directory for the example
	tmpDir, err := os.MkdirTemp("", "miniapp-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	data, err := miniapp.New[Task]("TodoList", nil,
		miniapp.WithBaseDir(tmpDir),
		miniapp.WithFormats("json", "yaml"),
	)
	if err != nil {
		log.Fatal(err)
	}

	// 1. Save to TodoList.json
	data.SetData([]Task{{ID: 1, Name: "Buy milk"}, {ID: 2, Name: "Walk the dog"}})
	if err := data.Export("", "json"); err != nil {
		log.Fatal(err)
	}

	// 2. Read it back
	data.ClearData()
	if err := data.Import("", "json", nil); err != nil {
		log.Fatal(err)
	}

	for _, t := range data.Data() {
		fmt.Printf("%d: %s\n", t.ID, t.Name)
	}
	// Output:
	// 1: Buy milk
	// 2: Walk the dog
}

// Example_mergeByID demonstrates updating records in place from another file.
func Example_mergeByID() {
	tmpDir, err := os.MkdirTemp("", "miniapp-merge-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	data, err := miniapp.New[Task]("TodoList", nil,
		miniapp.WithBaseDir(tmpDir),
		miniapp.WithFormats("json", "yaml"),
	)
	if err != nil {
		log.Fatal(err)
	}

	// An update file written by someone else
	data.SetData([]Task{{ID: 2, Name: "Walk the cat"}, {ID: 3, Name: "Read"}})
	if err := data.Export("update.yaml", "yaml"); err != nil {
		log.Fatal(err)
	}

	data.SetData([]Task{{ID: 1, Name: "Buy milk"}, {ID: 2, Name: "Walk the dog"}})
	if err := data.Import("update.yaml", "yaml", miniapp.MergeByID[Task, int](nil)); err != nil {
		log.Fatal(err)
	}

	for _, t := range data.Data() {
		fmt.Printf("%d: %s\n", t.ID, t.Name)
	}
	// Output:
	// 1: Buy milk
	// 2: Walk the cat
	// 3: Read
}

// Example_detectFormat demonstrates format detection from file names.
func Example_detectFormat() {
	data, err := miniapp.NewFields("Inventory",
		miniapp.WithFormats("json", "yaml", "csv"),
		miniapp.WithColumns("id", "name"),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(data.SupportedFormats())
	for _, path := range []string{"stock.CSV", "config.yml", "notes.txt"} {
		format, ok := data.DetectFormat(path)
		fmt.Printf("%s: %q %v\n", path, format, ok)
	}
	// Output:
	// [csv json yaml]
	// stock.CSV: "csv" true
	// config.yml: "yaml" true
	// notes.txt: "" false
}
