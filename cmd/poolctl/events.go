package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/urfave/cli/v2"
)

var events = cli.Command{
	Name:  "events",
	Usage: "list the events of all pools, or of the given one",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pool", Usage: "the name of the pool"},
		&cli.IntFlag{Name: "page", Usage: "the page number, starting from 1"},
		&cli.IntFlag{Name: "size", Usage: "the number of events per page"},
	},
	Action: eventsAction,
}

func eventsAction(ctx *cli.Context) error {
	path := "/v1/events"
	if name := ctx.String("pool"); len(name) > 0 {
		path = fmt.Sprintf("/v1/pools/%s/events", name)
	}

	query := url.Values{}
	if page := ctx.Int("page"); page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size := ctx.Int("size"); size > 0 {
		query.Set("size", strconv.Itoa(size))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	return request{method: http.MethodGet, path: path}.do()
}
