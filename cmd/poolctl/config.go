package main

import (
	"errors"
	"fmt"

	"github.com/shareswap/poold/internal/infrastructure/auth"
	"github.com/urfave/cli/v2"
)

var (
	daemonURLFlag = cli.StringFlag{
		Name:  "daemon_url",
		Usage: "poold http interface url",
		Value: "http://localhost:9945",
	}

	privateKeyFlag = cli.StringFlag{
		Name:  "private_key",
		Usage: "hex private key used to sign requests, a new one is generated if empty",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the poolctl CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&daemonURLFlag,
				&privateKeyFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		if key == "private_key" {
			continue
		}
		fmt.Println(key + ": " + value)
	}
	if key, err := getSigningKey(); err == nil {
		fmt.Println("pubkey: " + key.pubkey)
	}
	return nil
}

func configInitAction(ctx *cli.Context) error {
	privkey := ctx.String(privateKeyFlag.Name)
	var pubkey string
	var err error
	if len(privkey) <= 0 {
		privkey, pubkey, err = auth.NewPrivateKey()
	} else {
		_, pubkey, err = auth.ParsePrivateKey(privkey)
	}
	if err != nil {
		return err
	}

	if err := setState(map[string]string{
		"daemon_url":  ctx.String(daemonURLFlag.Name),
		"private_key": privkey,
	}); err != nil {
		return err
	}

	fmt.Println("pubkey: " + pubkey)
	return nil
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := ctx.Args().Get(0)
	value := ctx.Args().Get(1)

	if key == "private_key" {
		if _, _, err := auth.ParsePrivateKey(value); err != nil {
			return err
		}
	}
	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s has been set\n", key)
	return nil
}
