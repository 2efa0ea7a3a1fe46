package main

import (
	"encoding/hex"
	"fmt"

	"github.com/ppaass/ppaass/lib/common"
	"github.com/ppaass/ppaass/lib/config"
	"github.com/ppaass/ppaass/lib/crypto"
	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

type messageView struct {
	ID              string `yaml:"id"`
	EncryptionToken string `yaml:"encryption_token"`
	Encryption      string `yaml:"encryption"`
	Payload         string `yaml:"payload"`
	PayloadLength   int    `yaml:"payload_length"`
	Opened          bool   `yaml:"opened"`
	Remaining       int    `yaml:"remaining_bytes"`
}

func newMessageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Encode and decode message frames",
	}
	cmd.AddCommand(newMessageEncodeCommand(), newMessageDecodeCommand())
	return cmd
}

func newMessageEncodeCommand() *cobra.Command {
	var (
		id         string
		token      string
		encryption string
		payload    string
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Seal a payload and print the hex message frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if encryption == "" {
				encryption = config.CurrentConfig().Message.Encryption
			}
			kind, err := common.ParseEncryptionKind(encryption)
			if err != nil {
				return err
			}
			if kind != common.Plain && token == "" {
				return oops.With("encryption", kind.String()).
					Errorf("--token is required for %s encryption", kind)
			}
			m, err := crypto.SealMessage([]byte(id), []byte(token), kind, []byte(payload))
			if err != nil {
				return err
			}
			log.WithFields(logger.Fields{
				"at":             "message encode",
				"encryption":     kind.String(),
				"payload_length": len(m.Payload),
			}).Debug("encoding message")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(m.Bytes()))
			return err
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "message id")
	cmd.Flags().StringVar(&token, "token", "", "encryption token used as the cipher key")
	cmd.Flags().StringVar(&encryption, "encryption", "", "plain, blowfish or aes (default from config)")
	cmd.Flags().StringVar(&payload, "payload", "", "plaintext payload")
	return cmd
}

func newMessageDecodeCommand() *cobra.Command {
	var open bool
	cmd := &cobra.Command{
		Use:   "decode HEX",
		Short: "Decode a hex message frame and print it as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}
			m, rest, err := common.DecodeMessage(raw)
			if err != nil {
				return err
			}

			view := messageView{
				ID:              string(m.ID),
				EncryptionToken: hex.EncodeToString(m.EncryptionToken),
				Encryption:      m.EncryptionKind.String(),
				Payload:         hex.EncodeToString(m.Payload),
				PayloadLength:   len(m.Payload),
				Remaining:       len(rest),
			}
			if open {
				plaintext, err := crypto.OpenMessage(m)
				if err != nil {
					return err
				}
				view.Payload = string(plaintext)
				view.PayloadLength = len(plaintext)
				view.Opened = true
			}
			return writeYAML(cmd, view)
		},
	}
	cmd.Flags().BoolVar(&open, "open", false, "decrypt the payload using the frame's encryption token")
	return cmd
}
