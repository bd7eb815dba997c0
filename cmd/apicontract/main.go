package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/i18n"
	"github.com/reoring/apicontract/server"
	"github.com/reoring/apicontract/verify"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("apicontract: ")
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "generate":
		generateCmd(os.Args[2:])
	case "verify":
		verifyCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "apicontract CLI\n\nUsage:\n  apicontract generate -contract api.json -generator openapi2|openapi3|json-schema|raw [-language json|yaml] -out DIR\n  apicontract verify -contract api.json -interaction interaction.json [-json] [-lang en|ja]\n  apicontract serve -contract api.json [-addr :8082]\n\nNotes:\n  - Contracts are read as JSON or YAML by file extension.\n  - verify exits with status 1 when violations were found.")
}

func verifyCmd(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var contractPath, interactionPath, lang string
	var asJSON, verbose bool
	fs.StringVar(&contractPath, "contract", "", "contract file (.json, .yaml, .yml)")
	fs.StringVar(&interactionPath, "interaction", "", "recorded interaction file, - for stdin")
	fs.BoolVar(&asJSON, "json", false, "print the report as JSON")
	fs.StringVar(&lang, "lang", "en", "language of human-readable output (en|ja)")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if contractPath == "" || interactionPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	logf := verboseLogger(verbose)

	v := loadVerifier(contractPath, logf)
	data, err := readInput(interactionPath)
	if err != nil {
		fatalf("reading interaction: %v", err)
	}
	in, err := verify.DecodeInteraction(data)
	if err != nil {
		fatalf("decoding interaction: %v", err)
	}
	logf("verifying %s %s -> %d", in.Request.Method, in.Request.Path, in.Response.Status)
	report, err := v.Verify(in)
	if err != nil {
		fatalf("verify: %v", err)
	}

	if asJSON || !isatty.IsTerminal(os.Stdout.Fd()) {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fatalf("encoding report: %v", err)
		}
		fmt.Println(string(out))
	} else {
		i18n.SetLanguage(lang)
		printReport(os.Stdout, report)
	}
	if !report.OK() {
		os.Exit(1)
	}
}

func printReport(w io.Writer, r verify.Report) {
	if r.Context.Endpoint != "" {
		fmt.Fprintf(w, "endpoint: %s\n", r.Context.Endpoint)
	}
	for _, v := range r.Violations {
		fmt.Fprintf(w, "\n✗ %s [%s]\n", v.Kind.Title(), v.Kind)
		fmt.Fprintf(w, "  %s\n", v.Message)
	}
	if r.OK() {
		fmt.Fprintf(w, "✓ %s\n", i18n.T("summary_ok", nil))
		return
	}
	fmt.Fprintf(w, "\n%s\n", i18n.T("summary_failed", map[string]string{"count": strconv.Itoa(len(r.Violations))}))
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var contractPath, addr string
	var verbose bool
	fs.StringVar(&contractPath, "contract", "", "contract file (.json, .yaml, .yml)")
	fs.StringVar(&addr, "addr", ":8082", "listen address")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if contractPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	logf := verboseLogger(verbose)

	v := loadVerifier(contractPath, logf)
	srv := server.New(v, server.WithLogger(log.Default()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()
	log.Printf("validation server for %q listening on %s", v.Contract().Name, addr)
	if err := srv.Start(addr); err != nil {
		fatalf("serve: %v", err)
	}
}

func loadVerifier(path string, logf func(string, ...any)) *verify.Verifier {
	c, err := apicontract.LoadContractFile(path)
	if err != nil {
		fatalf("loading contract: %v", err)
	}
	logf("loaded contract %q: %d types, %d endpoints", c.Name, len(c.Types), len(c.Endpoints))
	v, err := verify.New(c)
	if err != nil {
		fatalf("contract: %v", err)
	}
	return v
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func verboseLogger(verbose bool) func(string, ...any) {
	return func(format string, a ...any) {
		if verbose {
			log.Printf(format, a...)
		}
	}
}

func fatalf(format string, a ...any) {
	log.Printf(format, a...)
	os.Exit(1)
}
