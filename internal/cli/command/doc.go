// Package command defines the nftsnap command-line interface.
//
// Commands are built with urfave/cli/v2. The Before hook of the app loads
// configuration and prepares an Env, which commands use to reach the
// network, the wallet and local storage.
package command
