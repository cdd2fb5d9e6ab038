// sevmeta-git-merge is the standalone git merge driver binary.
//
// Register it in .git/config and .gitattributes:
//
//	[merge "sevmeta"]
//	    name = sevmeta metadata merge driver
//	    driver = sevmeta-git-merge %O %A %B
//
//	*-metadata.json merge=sevmeta
package main

import (
	"fmt"
	"os"

	"github.com/sevmeta/sevmeta/gitmerge"
	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/schema"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <ancestor> <ours> <theirs>\n", os.Args[0])
		os.Exit(2)
	}
	err := gitmerge.RunFiles(os.Args[1], os.Args[2], os.Args[3],
		gitmerge.WithValidate(func(doc *ir.Node) error {
			sch, err := schema.Get(schema.VersionOf(doc))
			if err != nil {
				return err
			}
			return sch.Validate(doc)
		}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
