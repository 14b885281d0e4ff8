package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shareswap/poold/internal/infrastructure/auth"
	httpinterface "github.com/shareswap/poold/internal/interfaces/http"
	"github.com/urfave/cli/v2"
)

const requestTimeout = 30 * time.Second

var (
	poolctlDataDir = btcutil.AppDataDir("poolctl", false)
	statePath      = filepath.Join(poolctlDataDir, "state.json")

	httpClient = &http.Client{Timeout: requestTimeout}
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "poolctl"
	app.Usage = "Command line interface for poold"
	app.Commands = append(
		app.Commands,
		&config,
		&pools,
		&pool,
		&price,
		&createPool,
		&deposit,
		&withdraw,
		&swap,
		&quote,
		&withdrawFees,
		&pause,
		&resume,
		&setAdmin,
		&events,
		&balances,
		&faucet,
		&webhooks,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(poolctlDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(poolctlDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData := map[string]string{}
	if _, err := os.Stat(statePath); err == nil {
		if currentData, err = getState(); err != nil {
			return err
		}
	}

	buf, err := json.Marshal(merge(currentData, data))
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, buf, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}
	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

// signingKey is a private key used to sign requests, with its pubkey.
type signingKey struct {
	privkey string
	pubkey  string
}

func getSigningKey() (*signingKey, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	privkey, ok := state["private_key"]
	if !ok || len(privkey) <= 0 {
		return nil, errors.New("set a private key with `config init`")
	}
	_, pubkey, err := auth.ParsePrivateKey(privkey)
	if err != nil {
		return nil, err
	}
	return &signingKey{privkey, pubkey}, nil
}

type request struct {
	method   string
	path     string
	body     interface{}
	signer   *signingKey
	cosigner *signingKey
}

func (r request) do() error {
	state, err := getState()
	if err != nil {
		return err
	}
	daemonURL, ok := state["daemon_url"]
	if !ok {
		return errors.New("set daemon url with `config set daemon_url`")
	}

	var body []byte
	if r.body != nil {
		if body, err = json.Marshal(r.body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(
		r.method, strings.TrimRight(daemonURL, "/")+r.path, bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	path := strings.SplitN(r.path, "?", 2)[0]
	timestamp := time.Now().UnixMilli()
	hash := auth.RequestHash(r.method, path, timestamp, body)
	if r.signer != nil {
		sig, err := signHash(r.signer.privkey, hash)
		if err != nil {
			return err
		}
		req.Header.Set(httpinterface.PubkeyHeader, r.signer.pubkey)
		req.Header.Set(httpinterface.SignatureHeader, sig)
		req.Header.Set(httpinterface.TimestampHeader, strconv.FormatInt(timestamp, 10))
	}
	if r.cosigner != nil {
		sig, err := signHash(r.cosigner.privkey, hash)
		if err != nil {
			return err
		}
		req.Header.Set(httpinterface.CosignerPubkeyHeader, r.cosigner.pubkey)
		req.Header.Set(httpinterface.CosignerSignatureHeader, sig)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unable to connect to daemon: %w", err)
	}
	defer resp.Body.Close()

	resBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		res := map[string]string{}
		if err := json.Unmarshal(resBody, &res); err == nil && res["error"] != "" {
			return errors.New(res["error"])
		}
		return fmt.Errorf("request failed with status %s", resp.Status)
	}

	printRespJSON(resBody)
	return nil
}

func signHash(privkey string, hash []byte) (string, error) {
	key, _, err := auth.ParsePrivateKey(privkey)
	if err != nil {
		return "", err
	}
	return auth.Sign(key, hash)
}

func printRespJSON(resp []byte) {
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, resp, "", "\t"); err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(buf.String())
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[poolctl] %v\n", err)
	}
	os.Exit(1)
}
