package main

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	"github.com/ppaass/ppaass/lib/common"
	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

type addressView struct {
	Kind      string `yaml:"kind"`
	Host      string `yaml:"host"`
	Port      uint16 `yaml:"port"`
	Address   string `yaml:"address"`
	Remaining int    `yaml:"remaining_bytes"`
}

func newAddressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Encode and decode address frames",
	}
	cmd.AddCommand(newAddressEncodeCommand(), newAddressDecodeCommand())
	return cmd
}

func newAddressEncodeCommand() *cobra.Command {
	var (
		kind string
		host string
		port uint16
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the hex address frame for a host and port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := buildAddress(kind, host, port)
			if err != nil {
				return err
			}
			log.WithFields(logger.Fields{
				"at":      "address encode",
				"address": addr.String(),
				"kind":    addr.Kind.String(),
			}).Debug("encoding address")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(addr.Bytes()))
			return err
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "ipv4, ipv6 or domain (default: inferred from host)")
	cmd.Flags().StringVar(&host, "host", "", "IP address or domain name")
	cmd.Flags().Uint16Var(&port, "port", 0, "port number")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}

func buildAddress(kind, host string, port uint16) (common.Address, error) {
	ip := net.ParseIP(host)
	if kind == "" {
		if ip != nil {
			return common.NewIPAddress(ip, port)
		}
		return common.NewDomainAddress(host, port), nil
	}

	k, err := common.ParseAddressKind(kind)
	if err != nil {
		return common.Address{}, err
	}
	switch k {
	case common.IPv4:
		if ip == nil || ip.To4() == nil {
			return common.Address{}, oops.With("host", host).Errorf("%q is not an IPv4 address", host)
		}
		return common.NewAddress(ip.To4(), port, common.IPv4), nil
	case common.IPv6:
		if ip == nil {
			return common.Address{}, oops.With("host", host).Errorf("%q is not an IPv6 address", host)
		}
		return common.NewAddress(ip.To16(), port, common.IPv6), nil
	default:
		return common.NewDomainAddress(host, port), nil
	}
}

func newAddressDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode HEX",
		Short: "Decode a hex address frame and print it as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}
			addr, rest, err := common.DecodeAddress(raw)
			if err != nil {
				return err
			}
			return writeYAML(cmd, addressView{
				Kind:      addr.Kind.String(),
				Host:      hostString(addr),
				Port:      addr.Port,
				Address:   addr.String(),
				Remaining: len(rest),
			})
		},
	}
}

func hostString(a common.Address) string {
	if a.Kind == common.Domain {
		return string(a.Host)
	}
	return net.IP(a.Host).String()
}

func decodeHexArg(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, oops.Wrapf(err, "invalid hex input")
	}
	return raw, nil
}
