package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
)

var (
	rpcFlag = cli.StringFlag{
		Name:  "rpcserver",
		Usage: "zerobondd daemon address http(s)://host:port",
		Value: "http://localhost:9000",
	}

	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "account identity used as caller of the operations",
		Value: "",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the zerobond CLI",
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
				&rpcFlag,
				&accountFlag,
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
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		"rpcserver": c.String("rpcserver"),
		"account":   c.String("account"),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)

	return nil
}

func getMarketFromState() (string, int64, error) {
	state, err := getState()
	if err != nil {
		return "", 0, err
	}
	underlying, ok := state["underlying"]
	if !ok {
		return "", 0, errors.New("set underlying with `config set underlying`")
	}
	rawMaturity, ok := state["maturity"]
	if !ok {
		return "", 0, errors.New("set maturity with `config set maturity`")
	}
	maturity, err := strconv.ParseInt(rawMaturity, 10, 64)
	if err != nil {
		return "", 0, errors.New("maturity must be a unix timestamp")
	}

	return underlying, maturity, nil
}

func setMarketIntoState(underlying string, maturity int64) error {
	return setState(map[string]string{
		"underlying": underlying,
		"maturity":   strconv.FormatInt(maturity, 10),
	})
}
