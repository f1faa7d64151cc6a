/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utilities.go
Description: Utility commands for genschema. Lists the inference rules that can be enabled.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/genschema/pkg/comparators"
	"github.com/spf13/cobra"
)

// ListComparators lists every comparator and whether it runs by default
func ListComparators(cmd *cobra.Command, args []string) {
	fmt.Println("🧬 genschema - Available Comparators")
	fmt.Println("====================================")
	fmt.Println()

	core := comparators.NewTypeComparator()
	fmt.Printf("0. %s (always on)\n", core.Name())
	fmt.Printf("   Description: %s\n", core.Description())
	fmt.Println()

	for i, entry := range comparators.Catalog() {
		name := entry.Name
		if entry.Default {
			name += " (default)"
		}
		fmt.Printf("%d. %s\n", i+1, name)
		fmt.Printf("   Description: %s\n", entry.Description)
		fmt.Println()
	}

	fmt.Println("✨ Use --comparators to choose the rules, in order")
	fmt.Println("   delete-element cleanup runs automatically unless --keep-markers is set")
}
