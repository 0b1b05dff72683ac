package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var admin = cli.Command{
	Name:   "admin",
	Usage:  "print the current admin of the ledger",
	Action: adminAction,
}

func adminAction(ctx *cli.Context) error {
	resp, err := request(http.MethodGet, "/v1/admin", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)

	return nil
}

var transferadmin = cli.Command{
	Name:   "transferadmin",
	Usage:  "hand the admin role over to another account",
	Action: transferAdminAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "new_admin",
			Usage:    "the account receiving the admin role",
			Required: true,
		},
	},
}

func transferAdminAction(ctx *cli.Context) error {
	resp, err := request(http.MethodPut, "/v1/admin", map[string]interface{}{
		"new_admin": ctx.String("new_admin"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)

	return nil
}
