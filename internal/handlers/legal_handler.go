package handlers

import "github.com/gofiber/fiber/v2"

const legalStyle = `<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>`

type LegalHandler struct {
	contact string
}

func NewLegalHandler(contact string) *LegalHandler {
	if contact == "" {
		contact = "support@ratemyemployer.app"
	}
	return &LegalHandler{contact: contact}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - RateMyEmployer</title>
` + legalStyle + `
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: October 2026</p>
<h2>Information We Collect</h2>
<p>We store your email address, optional profile details, and the reviews, likes and reports you submit. If you sign in with Google we receive your Google account identifier and verified email.</p>
<h2>How Reviews Are Shown</h2>
<p>Reviews are published under your chosen display name only after moderation. Your email address is never shown publicly.</p>
<h2>Data Storage</h2>
<p>Your data is stored on encrypted servers. We do not sell your personal information to third parties.</p>
<h2>Account Deletion</h2>
<p>You can delete your account at any time. Your likes, reports and sessions are removed; published reviews remain but are no longer linked to a profile.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact us at ` + h.contact + `</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - RateMyEmployer</title>
` + legalStyle + `
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: October 2026</p>
<h2>Acceptance</h2>
<p>By using RateMyEmployer, you agree to these terms.</p>
<h2>Reviews</h2>
<p>Reviews must reflect your own experience as an employee. Do not post personal contact details, links, or offensive content. Every review is moderated and may be rejected.</p>
<h2>Submission Limits</h2>
<p>To keep the site fair, the number of reviews, companies and reports you can submit per day is limited.</p>
<h2>Termination</h2>
<p>We may suspend or terminate accounts that violate these terms.</p>
<h2>Contact</h2>
<p>For questions, contact us at ` + h.contact + `</p>
</body></html>`)
}
