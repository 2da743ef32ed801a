// Command qris inspects static QRIS payloads and turns them into priced
// dynamic ones.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
)

var commands = []string{"check", "info", "fields", "pay", "render", "decode"}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "QRIS payload tool\nUsage: ", cl.Program(), " ", cl.UsageLine(), ` command [payload]

Commands:
  check    verify the CRC16 checksum
  info     print the merchant identification as JSON
  fields   list the top-level data objects
  pay      inject an amount (-a) and an optional fee (-f, -p)
  render   write the payload as a QR image
  decode   print the payload held by an image (-i or -u)

The payload is taken from the arguments, from an image given with -i or
-u, or from standard input with the final newline stripped.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println("qris version 0.3.0")
	os.Exit(0)
}

func parseFlags() (options, string, []string) {
	o := options{size: 256}

	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version").SetFlag()
	getopt.FlagLong(&o.amount, "amount", 'a', "transaction amount for pay", "amount")
	getopt.FlagLong(&o.fee, "fee", 'f', "fee added to the amount for pay", "fee")
	getopt.FlagLong(&o.percentage, "percent", 'p', "treat -f as a percentage of the amount")
	getopt.FlagLong(&o.image, "image", 'i', "read the payload from a QR image file", "file")
	getopt.FlagLong(&o.url, "url", 'u', "read the payload from a QR image at URL", "url")
	getopt.FlagLong(&o.size, "size", 'z', "PNG size in pixels; negative is pixels per module", "size")
	getopt.FlagLong(&o.ttl, "ttl", 'T', "validity of a payment issued with -s", "ttl")
	fno := getopt.FlagLong(&o.out, "output", 'o', `output file, or "-" for standard output`, "file")
	getopt.FlagLong(&o.server, "server", 's', "issue payments through the merchant service at URL", "url")
	format := getopt.Enum('t', []string{"png", "dataurl", "utf8"}, "",
		`render format; if no -o is given and standard output is a TTY, `+
			`default is utf8, otherwise png`, "type")
	getopt.Parse()

	if *format == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*format = "utf8"
		} else {
			*format = "png"
		}
	}
	o.format = *format
	if o.out == "-" {
		o.out = ""
	}

	args := getopt.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "missing command")
		usage()
	}
	if !validCommand(args[0]) {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		usage()
	}
	return o, args[0], args[1:]
}

func validCommand(cmd string) bool {
	for _, c := range commands {
		if c == cmd {
			return true
		}
	}
	return false
}

func main() {
	log.SetFlags(0)
	o, cmd, args := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	payload, err := readPayload(ctx, o, cmd, args, os.Stdin)
	if err != nil {
		log.Fatalln(err)
	}

	w := io.Writer(os.Stdout)
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		w = f
	}

	if err := run(ctx, o, cmd, payload, w); err != nil {
		log.Fatalln(err)
	}
}

// readPayload resolves the payload from an image, the arguments or in.
func readPayload(ctx context.Context, o options, cmd string, args []string, in io.Reader) (string, error) {
	switch {
	case o.image != "":
		return newCodec(o).DecodeFile(o.image)
	case o.url != "":
		return newCodec(o).DecodeURL(ctx, o.url)
	case cmd == "decode":
		return "", fmt.Errorf("decode needs -i or -u")
	case len(args) != 0:
		return strings.Join(args, " "), nil
	}
	var b strings.Builder
	if _, err := io.Copy(&b, in); err != nil {
		return "", err
	}
	s, _ := strings.CutSuffix(strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	return s, nil
}
