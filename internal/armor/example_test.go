package armor_test

import (
	"fmt"

	"github.com/iwvelando/max-defense/internal/armor"
)

func ExampleDynamicMaxDefense() {
	items := armor.Catalog{
		armor.MustNewItem("helmet", 3, 4),
		armor.MustNewItem("shield", 4, 5),
		armor.MustNewItem("boots", 2, 3),
	}

	sol, err := armor.DynamicMaxDefense(items, 5)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, item := range sol.Items {
		fmt.Println(item.Description())
	}
	fmt.Printf("cost=%d defense=%g\n", sol.TotalCost(), sol.TotalDefense())
	// Output:
	// boots
	// helmet
	// cost=5 defense=7
}

func ExampleFilter() {
	items := armor.Catalog{
		armor.MustNewItem("broken buckler", 1, 0),
		armor.MustNewItem("chain shirt", 6, 8),
		armor.MustNewItem("tower shield", 9, 12),
		armor.MustNewItem("bracers", 2, 2),
	}

	for _, item := range armor.Filter(items, 0, 10, 5) {
		fmt.Println(item.Description())
	}
	// Output:
	// chain shirt
	// bracers
}
