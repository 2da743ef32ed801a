package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alovak/qris-playground/internal/qrimage"
	"github.com/alovak/qris-playground/internal/qrisclient"
	"github.com/alovak/qris-playground/merchant/models"
	"github.com/alovak/qris-playground/qris"
	"github.com/shopspring/decimal"
)

type options struct {
	amount     string
	fee        string
	percentage bool
	image      string
	url        string
	size       int
	ttl        string
	out        string
	server     string
	format     string
}

// Templates whose values are themselves TLV lists.
var nestedTags = map[string]bool{
	"26": true, "27": true, "28": true, "29": true, "30": true,
	"31": true, "32": true, "33": true, "34": true, "35": true,
	"36": true, "37": true, "38": true, "39": true, "40": true,
	"41": true, "42": true, "43": true, "44": true, "45": true,
	"46": true, "47": true, "48": true, "49": true, "50": true,
	"51": true, "62": true, "64": true,
}

func newCodec(o options) *qrimage.Codec {
	return qrimage.New(o.size)
}

func run(ctx context.Context, o options, cmd, payload string, w io.Writer) error {
	switch cmd {
	case "check":
		return check(payload, w)
	case "info":
		return info(payload, w)
	case "fields":
		return fields(payload, w)
	case "pay":
		return pay(ctx, o, payload, w)
	case "render":
		return render(o, payload, w)
	case "decode":
		_, err := fmt.Fprintln(w, payload)
		return err
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func check(payload string, w io.Writer) error {
	if qris.IsValid(payload) {
		_, err := fmt.Fprintln(w, "valid")
		return err
	}
	if len(payload) < 4 {
		return fmt.Errorf("invalid: payload too short")
	}
	return fmt.Errorf("invalid: checksum %s, expected %s",
		payload[len(payload)-4:], qris.Checksum(payload[:len(payload)-4]))
}

func info(payload string, w io.Writer) error {
	mi, err := qris.ExtractInfo(payload)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(mi)
}

func fields(payload string, w io.Writer) error {
	if !qris.IsValid(payload) {
		return &qris.ValidationError{Message: "invalid payload CRC16"}
	}
	list, err := qris.ParseFields(payload)
	if err != nil {
		return err
	}
	return printFields(w, list, "")
}

func printFields(w io.Writer, list []qris.Field, indent string) error {
	for _, f := range list {
		if _, err := fmt.Fprintf(w, "%s%s %02d %s\n", indent, f.Tag, len(f.Value), f.Value); err != nil {
			return err
		}
		if !nestedTags[f.Tag] || indent != "" {
			continue
		}
		// Some issuers put free text in template slots; print those flat.
		sub, err := qris.ParseFields(f.Value)
		if err != nil {
			continue
		}
		if err := printFields(w, sub, indent+"  "); err != nil {
			return err
		}
	}
	return nil
}

func amountSpec(o options) (qris.AmountSpec, error) {
	if o.amount == "" {
		return qris.AmountSpec{}, fmt.Errorf("pay needs an amount (-a)")
	}
	var spec qris.AmountSpec
	var err error
	if spec.Amount, err = decimal.NewFromString(strings.TrimSpace(o.amount)); err != nil {
		return spec, &qris.ValidationError{Message: fmt.Sprintf("amount %q is not a number", o.amount)}
	}
	if o.fee != "" {
		if spec.Fee, err = decimal.NewFromString(strings.TrimSpace(o.fee)); err != nil {
			return spec, &qris.ValidationError{Message: fmt.Sprintf("fee %q is not a number", o.fee)}
		}
	}
	spec.FeeType = qris.FeeFlat
	if o.percentage {
		spec.FeeType = qris.FeePercentage
	}
	return spec, nil
}

func pay(ctx context.Context, o options, payload string, w io.Writer) error {
	spec, err := amountSpec(o)
	if err != nil {
		return err
	}

	if o.server == "" {
		out, err := qris.BuildPayment(payload, spec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}

	p, err := qrisclient.New(o.server, nil).CreatePayment(ctx, models.CreatePayment{
		Payload: payload,
		Amount:  spec.Amount,
		Fee:     spec.Fee,
		FeeType: spec.FeeType,
		TTL:     o.ttl,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "payment %s, total %s, expires %s\n",
		p.ID, p.Total, p.ExpiresAt.Format(time.RFC3339))
	_, err = fmt.Fprintln(w, p.Payload)
	return err
}

func render(o options, payload string, w io.Writer) error {
	if !qris.IsValid(payload) {
		return &qris.ValidationError{Message: "invalid payload CRC16"}
	}
	b, _, err := newCodec(o).Render(payload, o.format)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	if o.format == "dataurl" {
		_, err = fmt.Fprintln(w)
	}
	return err
}
