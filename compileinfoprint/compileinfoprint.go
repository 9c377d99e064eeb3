// compileinfoprint is imported for the side effect of printing the compileinfo
// of the running freqplot binary to os.Stderr
package compileinfoprint

import "github.com/carbocation/freqplot/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
