package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var (
	amountInFlag = cli.Uint64Flag{
		Name:     "amount_in",
		Usage:    "the amount of the asset sent to the pool",
		Required: true,
	}
	minAmountOutFlag = cli.Uint64Flag{
		Name:  "min_amount_out",
		Usage: "the minimum amount of the asset received from the pool",
	}
	directionFlag = cli.StringFlag{
		Name:  "direction",
		Usage: "a_to_b or b_to_a",
		Value: "a_to_b",
	}
	sourceAssetFlag = cli.StringFlag{
		Name:     "source_asset",
		Usage:    "the asset sent to the pool",
		Required: true,
	}
	destinationAssetFlag = cli.StringFlag{
		Name:     "destination_asset",
		Usage:    "the asset received from the pool",
		Required: true,
	}
)

var swapFlags = []cli.Flag{
	&poolFlag,
	&amountInFlag,
	&minAmountOutFlag,
	&directionFlag,
	&sourceAssetFlag,
	&destinationAssetFlag,
}

var swap = cli.Command{
	Name:   "swap",
	Usage:  "swap one asset of a pool for the other",
	Flags:  append(swapFlags, &quoteOnlyFlag),
	Action: swapAction,
}

var quote = cli.Command{
	Name:   "quote",
	Usage:  "preview the outcome of a swap",
	Flags:  swapFlags,
	Action: quoteAction,
}

func swapRequestBody(ctx *cli.Context) map[string]interface{} {
	return map[string]interface{}{
		"amount_in":         ctx.Uint64(amountInFlag.Name),
		"min_amount_out":    ctx.Uint64(minAmountOutFlag.Name),
		"direction":         ctx.String(directionFlag.Name),
		"source_asset":      ctx.String(sourceAssetFlag.Name),
		"destination_asset": ctx.String(destinationAssetFlag.Name),
	}
}

func swapAction(ctx *cli.Context) error {
	if ctx.Bool(quoteOnlyFlag.Name) {
		return quoteAction(ctx)
	}

	key, err := getSigningKey()
	if err != nil {
		return err
	}
	return request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/v1/pools/%s/swap", ctx.String(poolFlag.Name)),
		body:   swapRequestBody(ctx),
		signer: key,
	}.do()
}

func quoteAction(ctx *cli.Context) error {
	return request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/v1/pools/%s/quote/swap", ctx.String(poolFlag.Name)),
		body:   swapRequestBody(ctx),
	}.do()
}
