package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var addwebhook = cli.Command{
	Name:   "addwebhook",
	Usage:  "register a webhook invoked when a ledger event occurs",
	Action: addWebhookAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "topic",
			Usage:    "the event topic to subscribe to, or * for all",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "endpoint",
			Usage:    "the endpoint of the webhook",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "the secret used to sign the webhook notifications",
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	resp, err := request(http.MethodPost, "/v1/webhooks", map[string]interface{}{
		"topic":    ctx.String("topic"),
		"endpoint": ctx.String("endpoint"),
		"secret":   ctx.String("secret"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)

	return nil
}

var removewebhook = cli.Command{
	Name:   "removewebhook",
	Usage:  "remove a registered webhook",
	Action: removeWebhookAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "topic",
			Usage:    "the topic of the webhook to remove",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the id of the webhook to remove",
			Required: true,
		},
	},
}

func removeWebhookAction(ctx *cli.Context) error {
	if _, err := request(http.MethodDelete, "/v1/webhooks", map[string]interface{}{
		"topic": ctx.String("topic"),
		"id":    ctx.String("id"),
	}); err != nil {
		return err
	}

	fmt.Println("webhook removed")

	return nil
}

var listwebhooks = cli.Command{
	Name:   "listwebhooks",
	Usage:  "list the registered webhooks for a topic",
	Action: listWebhooksAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "topic",
			Usage: "the topic to list the webhooks of, defaults to all",
		},
	},
}

func listWebhooksAction(ctx *cli.Context) error {
	path := "/v1/webhooks"
	if topic := ctx.String("topic"); topic != "" {
		path = fmt.Sprintf("%s?topic=%s", path, topic)
	}

	resp, err := request(http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)

	return nil
}
