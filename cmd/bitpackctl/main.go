// Command bitpackctl is an offline CLI for building and inspecting BitPack
// mesh frames: encoding typed payloads into hex frames, decoding and
// decrypting frames, and deriving/testing shared-secret key material.
package main

import "github.com/fzengin19/bitpack/cmd/bitpackctl/commands"

func main() {
	commands.Execute()
}
