package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	commonlog "github.com/muliswilliam/vending-machine/common/log"
	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
	"github.com/muliswilliam/vending-machine/vending-machine/src/repositories"
)

type purchaseTestContext struct {
	lock     *MachineLock
	catalog  repositories.ProductCatalog
	coins    repositories.CoinRepository
	products ProductService
	vending  VendingMachineService
	outcome  models.PurchaseOutcome
}

func (c *purchaseTestContext) reset() {
	logger := commonlog.Discard()
	c.lock = &MachineLock{}
	c.catalog = repositories.NewProductCatalog(logger)
	c.coins = repositories.NewCoinRepository(logger)
	c.products = NewProductService(c.lock, c.catalog, logger)
	c.vending = NewVendingMachineService(VendingMachineDeps{
		Lock:    c.lock,
		Catalog: c.catalog,
		Coins:   c.coins,
		Logger:  logger,
	})
	c.outcome = models.PurchaseOutcome{}
}

func parseDenomination(s string) (models.Denomination, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return models.NewDenomination(f)
}

func (c *purchaseTestContext) theMachineAcceptsCoins(list string) error {
	var ds []models.Denomination
	for _, part := range strings.Split(list, ",") {
		d, err := parseDenomination(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		ds = append(ds, d)
	}
	c.vending.Configure(context.Background(), ds)
	return nil
}

func (c *purchaseTestContext) theMachineHoldsOfEachAcceptedCoin(n int) error {
	ctx := context.Background()
	var entries []models.CoinCount
	for _, d := range c.vending.AcceptedCoins(ctx) {
		entries = append(entries, models.CoinCount{Denomination: d, Quantity: n})
	}
	if _, appErr := c.vending.UpdateCoinInventory(ctx, entries); appErr != nil {
		return appErr
	}
	return nil
}

func (c *purchaseTestContext) theMachineHoldsOnlyCoinsOf(n int, value string) error {
	if err := c.theMachineHoldsOfEachAcceptedCoin(0); err != nil {
		return err
	}
	d, err := parseDenomination(value)
	if err != nil {
		return err
	}
	if _, appErr := c.vending.UpdateCoinInventory(context.Background(), []models.CoinCount{{Denomination: d, Quantity: n}}); appErr != nil {
		return appErr
	}
	return nil
}

func (c *purchaseTestContext) theCatalogContains(name string, price float64, quantity int) error {
	amount, err := models.NonNegativeAmountFromFloat(price)
	if err != nil {
		return err
	}
	if _, appErr := c.products.Create(context.Background(), name, amount, quantity); appErr != nil {
		return appErr
	}
	return nil
}

func (c *purchaseTestContext) slotOf(name string) (int, error) {
	for _, p := range c.products.FindAll(context.Background()) {
		if strings.EqualFold(p.Name, name) {
			return p.Slot, nil
		}
	}
	return 0, fmt.Errorf("no product named %q", name)
}

func (c *purchaseTestContext) iInsertCoinsAndSelectSlot(n int, value string, slot int) error {
	d, err := parseDenomination(value)
	if err != nil {
		return err
	}
	c.outcome = c.vending.BuyProduct(context.Background(), slot, models.CoinBag{d: n})
	return nil
}

func (c *purchaseTestContext) iInsertCoinsAndSelectTheSlotOf(n int, value, name string) error {
	slot, err := c.slotOf(name)
	if err != nil {
		return err
	}
	return c.iInsertCoinsAndSelectSlot(n, value, slot)
}

func (c *purchaseTestContext) thePurchaseSucceeds() error {
	if !c.outcome.Success {
		return fmt.Errorf("expected success, got %q", c.outcome.Reason)
	}
	return nil
}

func (c *purchaseTestContext) thePurchaseFailsWith(reason string) error {
	if c.outcome.Success {
		return fmt.Errorf("expected failure %q, purchase succeeded", reason)
	}
	if string(c.outcome.Reason) != reason {
		return fmt.Errorf("expected reason %q, got %q", reason, c.outcome.Reason)
	}
	return nil
}

func (c *purchaseTestContext) iReceiveChangeOf(n int, value string) error {
	d, err := parseDenomination(value)
	if err != nil {
		return err
	}
	want := models.CoinBag{d: n}
	if len(c.outcome.Change) != 1 || c.outcome.Change[d] != n {
		return fmt.Errorf("expected change %v, got %v", want.Counts(), c.outcome.Change.Counts())
	}
	return nil
}

func (c *purchaseTestContext) theDispensedProductReportsQuantity(n int) error {
	if c.outcome.Product == nil {
		return fmt.Errorf("no product dispensed")
	}
	if c.outcome.Product.Quantity != n {
		return fmt.Errorf("expected dispensed quantity %d, got %d", n, c.outcome.Product.Quantity)
	}
	return nil
}

func (c *purchaseTestContext) productHasLeft(name string, n int) error {
	slot, err := c.slotOf(name)
	if err != nil {
		return err
	}
	p, appErr := c.products.FindOne(context.Background(), slot)
	if appErr != nil {
		return appErr
	}
	if p.Quantity != n {
		return fmt.Errorf("expected %d of %s left, got %d", n, name, p.Quantity)
	}
	return nil
}

func InitializePurchaseScenario(ctx *godog.ScenarioContext) {
	tc := &purchaseTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the machine accepts coins "([^"]*)"$`, tc.theMachineAcceptsCoins)
	ctx.Step(`^the machine holds (\d+) of each accepted coin$`, tc.theMachineHoldsOfEachAcceptedCoin)
	ctx.Step(`^the machine holds only (\d+) coins of ([\d.]+)$`, tc.theMachineHoldsOnlyCoinsOf)
	ctx.Step(`^the catalog contains "([^"]*)" priced ([\d.]+) with quantity (\d+)$`, tc.theCatalogContains)

	// When steps
	ctx.Step(`^I insert (\d+) coins of ([\d.]+) and select the slot of "([^"]*)"$`, tc.iInsertCoinsAndSelectTheSlotOf)
	ctx.Step(`^I insert (\d+) coins of ([\d.]+) and select slot (\d+)$`, tc.iInsertCoinsAndSelectSlot)

	// Then steps
	ctx.Step(`^the purchase succeeds$`, tc.thePurchaseSucceeds)
	ctx.Step(`^the purchase fails with "([^"]*)"$`, tc.thePurchaseFailsWith)
	ctx.Step(`^I receive change of (\d+) coins of ([\d.]+)$`, tc.iReceiveChangeOf)
	ctx.Step(`^the dispensed product reports quantity (\d+)$`, tc.theDispensedProductReportsQuantity)
	ctx.Step(`^"([^"]*)" has (\d+) left$`, tc.productHasLeft)
}

func TestPurchaseFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializePurchaseScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/purchase.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
