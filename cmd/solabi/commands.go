package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/Neumenon/solabi/solabi"
)

var (
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// registryFlags collects the --struct/--enum/--udt definitions shared by
// every subcommand.
type registryFlags struct {
	structs []string
	enums   []string
	udts    []string
}

func (rf *registryFlags) install(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&rf.structs, "struct", nil,
		`struct definition, e.g. "Person=name:string,wallet:address"`)
	cmd.Flags().StringArrayVar(&rf.enums, "enum", nil,
		`enum definition, e.g. "Color=3"`)
	cmd.Flags().StringArrayVar(&rf.udts, "udt", nil,
		`value type definition, e.g. "TokenId=uint256"`)
}

func (rf *registryFlags) build() (*solabi.Registry, error) {
	reg := solabi.NewRegistry()
	for _, s := range rf.structs {
		name, body, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("bad --struct %q, want Name=field:type,...", s)
		}
		var fieldNames, fieldTypes []string
		for _, f := range strings.Split(body, ",") {
			fn, ft, ok := strings.Cut(f, ":")
			if !ok {
				return nil, fmt.Errorf("bad field %q in --struct %q, want field:type", f, s)
			}
			fieldNames = append(fieldNames, strings.TrimSpace(fn))
			fieldTypes = append(fieldTypes, strings.TrimSpace(ft))
		}
		if err := reg.DefineStruct(strings.TrimSpace(name), fieldNames, fieldTypes); err != nil {
			return nil, err
		}
	}
	for _, e := range rf.enums {
		name, count, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("bad --enum %q, want Name=count", e)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, fmt.Errorf("bad --enum %q: %w", e, err)
		}
		if err := reg.DefineEnum(strings.TrimSpace(name), n); err != nil {
			return nil, err
		}
	}
	for _, u := range rf.udts {
		name, underlying, ok := strings.Cut(u, "=")
		if !ok {
			return nil, fmt.Errorf("bad --udt %q, want Name=type", u)
		}
		if err := reg.DefineValueType(strings.TrimSpace(name), strings.TrimSpace(underlying)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// coerceArgs turns CLI literals into values for a type. A single literal is
// coerced against the whole type; multiple literals require a tuple type and
// map onto its members, encoding like a function argument list.
func coerceArgs(ty *solabi.Type, args []string) ([]solabi.Value, []*solabi.Type, error) {
	if len(args) == 1 {
		v, err := solabi.CoerceValue(args[0], ty)
		if err != nil {
			return nil, nil, err
		}
		return []solabi.Value{v}, []*solabi.Type{ty}, nil
	}

	members := ty.Members()
	if ty.Kind() != solabi.KindTuple && ty.Kind() != solabi.KindStruct {
		return nil, nil, fmt.Errorf("%d values need a tuple type, got %s", len(args), ty)
	}
	if len(members) != len(args) {
		return nil, nil, fmt.Errorf("%s has %d members, got %d values", ty, len(members), len(args))
	}
	values := make([]solabi.Value, len(args))
	for i, a := range args {
		v, err := solabi.CoerceValue(a, members[i])
		if err != nil {
			return nil, nil, err
		}
		values[i] = v
	}
	return values, members, nil
}

func encodeCmd() *cobra.Command {
	var rf registryFlags
	cmd := &cobra.Command{
		Use:   "encode <type> <value>...",
		Short: "ABI-encode values",
		Long: `Encode values in canonical head/tail form.

Examples:
  solabi encode uint256 42
  solabi encode "(address,uint256)" 0x1111111111111111111111111111111111111111 1000
  solabi encode "uint8[]" "[1, 2, 3]"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := rf.build()
			if err != nil {
				return err
			}
			ty, err := solabi.ParseType(args[0], reg)
			if err != nil {
				return err
			}
			values, types, err := coerceArgs(ty, args[1:])
			if err != nil {
				return err
			}
			data, err := solabi.Encode(values, types)
			if err != nil {
				return err
			}
			fmt.Println(green("0x" + hex.EncodeToString(data)))
			return nil
		},
	}
	rf.install(cmd)
	return cmd
}

func decodeCmd() *cobra.Command {
	var rf registryFlags
	var strict bool
	cmd := &cobra.Command{
		Use:   "decode <type> <hexdata>",
		Short: "Decode ABI data into a value tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := rf.build()
			if err != nil {
				return err
			}
			ty, err := solabi.ParseType(args[0], reg)
			if err != nil {
				return err
			}
			data, err := hex.DecodeString(strings.TrimPrefix(args[1], "0x"))
			if err != nil {
				return fmt.Errorf("bad hex data: %w", err)
			}
			values, err := solabi.DecodeWithOptions(data, []*solabi.Type{ty},
				solabi.DecodeOptions{Strict: strict})
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", cyan(ty.String()), values[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject non-canonical words")
	rf.install(cmd)
	return cmd
}

func packedCmd() *cobra.Command {
	var rf registryFlags
	cmd := &cobra.Command{
		Use:   "packed <type> <value>...",
		Short: "Encode values in packed (abi.encodePacked) form",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := rf.build()
			if err != nil {
				return err
			}
			ty, err := solabi.ParseType(args[0], reg)
			if err != nil {
				return err
			}
			values, types, err := coerceArgs(ty, args[1:])
			if err != nil {
				return err
			}
			data, err := solabi.EncodePacked(values, types)
			if err != nil {
				return err
			}
			fmt.Println(green("0x" + hex.EncodeToString(data)))
			return nil
		},
	}
	rf.install(cmd)
	return cmd
}

func selectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <signature>",
		Short: "Compute the 4-byte function selector of a signature",
		Long: `Compute the Keccak-256 based function selector.

Example:
  solabi selector "transfer(address,uint256)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := solabi.SelectorOf(args[0])
			fmt.Printf("%s  %s\n", green("0x"+hex.EncodeToString(sel[:])), cyan(args[0]))
			return nil
		},
	}
}

func inspectCmd() *cobra.Command {
	var rf registryFlags
	cmd := &cobra.Command{
		Use:   "inspect <type>",
		Short: "Show the head/tail layout of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := rf.build()
			if err != nil {
				return err
			}
			ty, err := solabi.ParseType(args[0], reg)
			if err != nil {
				return err
			}

			fmt.Printf("%s %s\n", bold("type:"), cyan(ty.String()))
			fmt.Printf("%s %v   %s %d\n",
				bold("dynamic:"), ty.IsDynamic(),
				bold("nesting depth:"), ty.NestingDepth())

			members := []*solabi.Type{ty}
			if ty.Kind() == solabi.KindTuple || ty.Kind() == solabi.KindStruct {
				members = ty.Members()
			}

			headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
			tbl := table.New("Slot", "Type", "Kind", "Head", "Static Size")
			tbl.WithHeaderFormatter(headerFmt)
			slot := 0
			for _, m := range members {
				head := "inline"
				size := strconv.Itoa(m.EncodedSize())
				slots := m.EncodedSize() / 32
				if m.IsDynamic() {
					head = "offset"
					size = "-"
					slots = 1
				}
				tbl.AddRow(slot, m.String(), m.Kind(), head, size)
				slot += slots
			}
			tbl.Print()
			return nil
		},
	}
	rf.install(cmd)
	return cmd
}
