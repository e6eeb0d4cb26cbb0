package browser

// Locators collects every XPath the driver touches. Banner markup drifts
// between terms, keeping the selectors in one value makes that a one-file
// fix.
type Locators struct {
	EnterCRNsTab string
	CRNInput     string
	AddToSummary string
	Submit       string
}

func DefaultLocators() Locators {
	return Locators{
		EnterCRNsTab: `//a[normalize-space()='Enter CRNs']`,
		// the CRN input sits right after its label
		CRNInput: `//label[normalize-space()='CRN']/following::input[1]`,
		AddToSummary: `//button[normalize-space()='Add to Summary']` +
			` | //input[@type='button' and @value='Add to Summary']` +
			` | //input[@type='submit' and @value='Add to Summary']`,
		Submit: `//button[normalize-space()='Submit']` +
			` | //input[@type='button' and @value='Submit']` +
			` | //input[@type='submit' and @value='Submit']`,
	}
}
