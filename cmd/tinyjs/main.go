// Command tinyjs transpiles arrow-function programs to classic function
// expressions.
//
//	tinyjs build                      # src/index.js → dist/index.js
//	tinyjs build app.js -d out        # app.js → out/index.js
//	tinyjs build --watch              # rebuild on every save
//	tinyjs tokens app.js              # print the token stream
//	tinyjs ast app.js --format yaml   # dump the parsed tree
package main

import (
	"os"

	"github.com/sandrolain/tinyjs/cmd/tinyjs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
