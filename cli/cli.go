package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jobala/bplus/index"
)

var (
	errorColor  = color.New(color.FgRed)
	resultColor = color.New(color.FgGreen)
	treeColor   = color.New(color.FgCyan)
)

type Cli struct {
	scanner *bufio.Scanner
	out     io.Writer
	tree    *index.BplusTree[string, string]
}

func NewCli(s *bufio.Scanner, out io.Writer, t *index.BplusTree[string, string]) *Cli {
	return &Cli{scanner: s, out: out, tree: t}
}

// Start reads commands until EXIT or the end of input.
func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return
		}
		c.printPrompt()
	}
}

func (c *Cli) printHelp() {
	fmt.Fprintf(c.out, `
B+Tree CLI (order %d)

Available Commands:
  SET <key> <val>   Insert or replace a key-value pair
  GET <key>         Retrieve the value for key
  DEL <key>         Remove a key-value pair
  SCAN <lo> <hi>    List the pairs with lo <= key <= hi
  DUMP              Print the tree, one node per line
  SNAPSHOT <path>   Write a page image of every node to path
  HELP              Show this message
  EXIT              Terminate this session

`, c.tree.Policy().Order())
}

func (c *Cli) printPrompt() {
	fmt.Fprint(c.out, "> ")
}

// processInput runs one command line and reports whether to keep going.
func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		errorColor.Fprintf(c.out, "Unknown command \"%s\"\n", command)
	case "set":
		c.processSetCommand(fields[1:])
	case "get":
		c.processGetCommand(fields[1:])
	case "del":
		c.processDeleteCommand(fields[1:])
	case "scan":
		c.processScanCommand(fields[1:])
	case "dump":
		treeColor.Fprint(c.out, c.tree.Pretty())
	case "snapshot":
		c.processSnapshotCommand(fields[1:])
	case "help":
		c.printHelp()
	case "exit":
		return false
	}
	return true
}

func (c *Cli) processSetCommand(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: SET <key> <value>")
		return
	}

	if c.tree.Insert(args[0], args[1]) {
		resultColor.Fprintln(c.out, "inserted")
	} else {
		resultColor.Fprintln(c.out, "updated")
	}
}

func (c *Cli) processGetCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: GET <key>")
		return
	}

	val, err := c.tree.GetValue(args[0])
	if err != nil {
		errorColor.Fprintln(c.out, "Key not found.")
		return
	}
	resultColor.Fprintln(c.out, val)
}

func (c *Cli) processDeleteCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: DEL <key>")
		return
	}

	if !c.tree.Delete(args[0]) {
		errorColor.Fprintln(c.out, "Key not found.")
		return
	}
	resultColor.Fprintln(c.out, "deleted")
}

func (c *Cli) processScanCommand(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: SCAN <lo> <hi>")
		return
	}

	count := 0
	indexIter := c.tree.SeekIterator(args[0])
	for !indexIter.IsEnd() {
		key, val, err := indexIter.Next()
		if err != nil || key > args[1] {
			break
		}

		resultColor.Fprintf(c.out, "%s = %s\n", key, val)
		count += 1
	}
	fmt.Fprintf(c.out, "(%d pairs)\n", count)
}

func (c *Cli) processSnapshotCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: SNAPSHOT <path>")
		return
	}

	header, err := c.tree.WriteSnapshotFile(args[0])
	if err != nil {
		errorColor.Fprintf(c.out, "snapshot failed: %v\n", err)
		return
	}
	resultColor.Fprintf(c.out, "wrote %d nodes, %d keys, height %d to %s\n", header.NodeCount, header.KeyCount, header.Height, args[0])
}
