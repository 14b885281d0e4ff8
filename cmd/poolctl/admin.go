package main

import (
	"fmt"
	"net/http"

	"github.com/shareswap/poold/internal/infrastructure/auth"
	"github.com/urfave/cli/v2"
)

var newAdminKeyFlag = cli.StringFlag{
	Name:     "new_admin_key",
	Usage:    "hex private key of the new admin, co-signing the rotation",
	Required: true,
}

var withdrawFees = cli.Command{
	Name:   "withdrawfees",
	Usage:  "withdraw the protocol fees collected by a pool",
	Flags:  []cli.Flag{&poolFlag, &amountAFlag, &amountBFlag},
	Action: withdrawFeesAction,
}

var pause = cli.Command{
	Name:   "pause",
	Usage:  "pause deposits and swaps of a pool",
	Flags:  []cli.Flag{&poolFlag},
	Action: pauseAction,
}

var resume = cli.Command{
	Name:   "resume",
	Usage:  "resume a paused pool",
	Flags:  []cli.Flag{&poolFlag},
	Action: resumeAction,
}

var setAdmin = cli.Command{
	Name:   "setadmin",
	Usage:  "rotate the admin of a pool",
	Flags:  []cli.Flag{&poolFlag, &newAdminKeyFlag},
	Action: setAdminAction,
}

func withdrawFeesAction(ctx *cli.Context) error {
	key, err := getSigningKey()
	if err != nil {
		return err
	}

	return request{
		method: http.MethodPost,
		path: fmt.Sprintf(
			"/v1/pools/%s/fees/withdraw", ctx.String(poolFlag.Name),
		),
		body: map[string]uint64{
			"amount_a": ctx.Uint64(amountAFlag.Name),
			"amount_b": ctx.Uint64(amountBFlag.Name),
		},
		signer: key,
	}.do()
}

func pauseAction(ctx *cli.Context) error {
	return setPause(ctx, true)
}

func resumeAction(ctx *cli.Context) error {
	return setPause(ctx, false)
}

func setPause(ctx *cli.Context, paused bool) error {
	key, err := getSigningKey()
	if err != nil {
		return err
	}

	return request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/v1/pools/%s/pause", ctx.String(poolFlag.Name)),
		body:   map[string]bool{"paused": paused},
		signer: key,
	}.do()
}

func setAdminAction(ctx *cli.Context) error {
	key, err := getSigningKey()
	if err != nil {
		return err
	}
	newAdminKey := ctx.String(newAdminKeyFlag.Name)
	_, newAdmin, err := auth.ParsePrivateKey(newAdminKey)
	if err != nil {
		return err
	}

	return request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/v1/pools/%s/admin", ctx.String(poolFlag.Name)),
		signer:   key,
		cosigner: &signingKey{newAdminKey, newAdmin},
	}.do()
}
