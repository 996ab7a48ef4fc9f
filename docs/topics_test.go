package docs_test

import (
	"bufio"
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/ledgerdash"
	"github.com/etnz/ledgerdash/cmd"
	"github.com/etnz/ledgerdash/config"
	"github.com/etnz/ledgerdash/docs"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file is
	// listed in readme.md.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := docs.GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := docs.GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := docs.GetTopic("*")
	if err != nil {
		t.Fatalf("GetTopic(*) error = %v", err)
	}
	for _, title := range []string{"# Ledger file", "# Reports", "# Server"} {
		if !strings.Contains(all, title) {
			t.Errorf("GetTopic(*) is missing %q", title)
		}
	}
	if _, err := docs.GetTopics("readme", "nope"); err == nil {
		t.Error("GetTopics() with an unknown topic succeeded")
	}
}

// Block is a fenced code block of a markdown file.
type Block struct {
	Lang    string
	Content string
	File    string
	Line    int
}

func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	commands := make(map[string]func() *flag.FlagSet)
	for _, c := range cmd.Commands() {
		commands[c.Name()] = func() *flag.FlagSet {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			f.SetOutput(io.Discard)
			c.SetFlags(f)
			return f
		}
	}

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for _, b := range parseMarkdown(t, file) {
				switch b.Lang {
				case "bash":
					checkCommands(t, b, commands)
				case "toml":
					cfg := config.NewDefaultConfig()
					if err := toml.Unmarshal([]byte(b.Content), cfg); err != nil {
						t.Errorf("%s:%d: invalid settings: %v", b.File, b.Line, err)
					} else if err := cfg.Validate(); err != nil {
						t.Errorf("%s:%d: invalid settings: %v", b.File, b.Line, err)
					}
				case "ledger":
					if cache := ledgerdash.DecodeLedgerString(b.Content, ledgerdash.Classifier{}); len(cache.Transactions) == 0 {
						t.Errorf("%s:%d: no transaction in the ledger example", b.File, b.Line)
					}
				}
			}
		})
	}
}

// checkCommands checks that every ldash command line of b names a command
// and only uses its flags.
func checkCommands(t *testing.T, b *Block, commands map[string]func() *flag.FlagSet) {
	t.Helper()
	for line := range strings.Lines(b.Content) {
		args := strings.Fields(line)
		if len(args) == 0 || args[0] != "ldash" {
			continue
		}
		if len(args) < 2 {
			t.Errorf("%s:%d: %q has no command", b.File, b.Line, line)
			continue
		}
		flags, ok := commands[args[1]]
		if !ok {
			t.Errorf("%s:%d: unknown command %q", b.File, b.Line, args[1])
			continue
		}
		if err := flags().Parse(args[2:]); err != nil {
			t.Errorf("%s:%d: %q: %v", b.File, b.Line, strings.TrimSpace(line), err)
		}
	}
}

// parseMarkdown returns the fenced code blocks of a markdown file.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		var body strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			body.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Lang:    string(fcb.Language(content)),
			Content: body.String(),
			File:    file,
			Line:    lineNumber(content, fcb.Info.Segment.Start),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// lineNumber returns the 1-based line of offset in source.
func lineNumber(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
