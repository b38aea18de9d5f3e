package main

import (
	"bytes"
	"flag"
	"io"
	"log"
	"os"

	"github.com/clarete/simplec"
)

const defaultWritePermission = 0644 // -rw-r--r--

func main() {
	var (
		outputPath = flag.String("o", "/dev/stdout", "Path to the output file")
		target     = flag.String("target", "elf", "Target assembler dialect: elf or macho")
	)
	flag.Parse()

	platform := simplec.ParsePlatform(*target)

	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("Can't read input: %s", err.Error())
	}

	reporter := simplec.NewReporter(os.Stderr)
	checker := simplec.NewChecker(reporter)
	lexer := simplec.NewLexer(bytes.NewReader(source))
	parser := simplec.NewParser(lexer, checker)

	functions, err := parser.Parse()
	if err != nil {
		log.Fatalf("%s", err.Error())
	}

	out, err := os.OpenFile(*outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defaultWritePermission)
	if err != nil {
		log.Fatalf("Can't open output: %s", err.Error())
	}
	defer out.Close()

	codegen := simplec.NewCodegen(out, platform)
	simplec.Generate(codegen, functions, parser.Outermost())
}
