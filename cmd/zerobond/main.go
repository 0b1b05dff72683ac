package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/urfave/cli/v2"
)

var (
	zerobondDataDir = appDataDir()
	statePath       = path.Join(zerobondDataDir, "state.json")

	httpClient = &http.Client{Timeout: 30 * time.Second}
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "zerobond operator CLI"
	app.Usage = "Command line interface for zerobondd daemon operators"
	app.Commands = append(
		app.Commands,
		&config,
		&createmarket,
		&listmarkets,
		&market,
		&mint,
		&repay,
		&redeem,
		&admin,
		&transferadmin,
		&addwebhook,
		&removewebhook,
		&listwebhooks,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func appDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zerobond-operator"
	}
	return path.Join(home, ".zerobond-operator")
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	json.Unmarshal(file, &data)

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(zerobondDataDir); os.IsNotExist(err) {
		os.Mkdir(zerobondDataDir, os.ModeDir|0755)
	}

	currentData := map[string]string{}
	if file, err := os.ReadFile(statePath); err == nil {
		json.Unmarshal(file, &currentData)
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string, 0)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

// request performs an authenticated call against the daemon and returns the
// decoded response body.
func request(method, path string, body interface{}) (json.RawMessage, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	baseURL, ok := state["rpcserver"]
	if !ok {
		return nil, errors.New("set rpcserver with `config set rpcserver`")
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if account := state["account"]; account != "" {
		req.Header.Set("X-Account-ID", account)
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %v", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode >= 400 {
		var errRes struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(payload, &errRes) == nil && errRes.Error != "" {
			return nil, errors.New(errRes.Error)
		}
		return nil, fmt.Errorf("daemon returned status %d", res.StatusCode)
	}

	return payload, nil
}

func printRespJSON(resp json.RawMessage) {
	if len(resp) == 0 {
		return
	}

	var out bytes.Buffer
	if err := json.Indent(&out, resp, "", "\t"); err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(out.String())
}

func fatal(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "[zerobond] %v\n", err)
	os.Exit(1)
}
