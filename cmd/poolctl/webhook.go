package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var webhooks = cli.Command{
	Name:  "webhooks",
	Usage: "manage the webhooks notified of pool events, operator only",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a webhook for the given event type, or * for all",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "event", Usage: "the event type", Value: "*"},
				&cli.StringFlag{Name: "endpoint", Usage: "the webhook url", Required: true},
				&cli.StringFlag{Name: "secret", Usage: "secret used to sign webhook tokens"},
			},
			Action: addWebhookAction,
		},
		{
			Name:  "list",
			Usage: "list the webhooks for the given event type, all by default",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "event", Usage: "the event type"},
			},
			Action: listWebhooksAction,
		},
		{
			Name:   "remove",
			Usage:  "remove the webhook with the given <id>",
			Action: removeWebhookAction,
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	key, err := getSigningKey()
	if err != nil {
		return err
	}

	return request{
		method: http.MethodPost,
		path:   "/v1/webhooks",
		body: map[string]string{
			"event":    ctx.String("event"),
			"endpoint": ctx.String("endpoint"),
			"secret":   ctx.String("secret"),
		},
		signer: key,
	}.do()
}

func listWebhooksAction(ctx *cli.Context) error {
	key, err := getSigningKey()
	if err != nil {
		return err
	}

	path := "/v1/webhooks"
	if event := ctx.String("event"); len(event) > 0 {
		path += "?" + url.Values{"event": []string{event}}.Encode()
	}
	return request{method: http.MethodGet, path: path, signer: key}.do()
}

func removeWebhookAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	key, err := getSigningKey()
	if err != nil {
		return err
	}

	return request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/v1/webhooks/%s", ctx.Args().First()),
		signer: key,
	}.do()
}
