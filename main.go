// main is the entry point for the locviz CLI.
package main

import (
	"os"

	"github.com/huangsam/locviz/cmd"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.Logger.WithError(err).Error("locviz failed")
		os.Exit(1)
	}
}
