// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package toolkit

import (
	"fmt"
	"regexp"
	"strings"
)

// Family names as reported in verdicts.
const (
	FamilyGophish     = "Gophish"
	FamilyHiddenEye   = "HiddenEye"
	FamilyKingPhisher = "King Phisher"
	FamilySocialFish  = "SocialFish"
	FamilyEvilginx    = "Evilginx2"
	FamilyGenericKit  = "Generic Phishing Kit"
)

var (
	gophishHeaders = []string{"x-gophish-contact", "x-gophish-signature"}
	gophishHTML    = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<input[^>]*name=["']rid["']`),
		regexp.MustCompile(`(?i)<form[^>]*action=["'][^"']*\?rid=`),
	}
	gophishJS = []*regexp.Regexp{
		regexp.MustCompile(`(?i)var\s+rid\s*=`),
		regexp.MustCompile(`(?i)gophish`),
		regexp.MustCompile(`(?i)campaign_id`),
		regexp.MustCompile(`(?i)rid=[a-zA-Z0-9]+`),
	}

	hiddenEyeURL = []*regexp.Regexp{
		regexp.MustCompile(`(?i)/login\.php$`),
		regexp.MustCompile(`(?i)/index\.php\?`),
	}
	hiddenEyeHTML = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<title>[^<]*login[^<]*</title>`),
		regexp.MustCompile(`(?i)class=["']login-container["']`),
	}
	hiddenEyeMeta = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<meta[^>]*content=["']hiddeneye`),
	}
	hiddenEyeJS = []*regexp.Regexp{
		regexp.MustCompile(`(?i)hiddeneye`),
		regexp.MustCompile(`(?i)pish\.js`),
	}

	kingPhisherParams  = []string{"id", "uid", "campaign"}
	kingPhisherHeaders = []string{"x-king-phisher"}
	kingPhisherHTML    = []*regexp.Regexp{
		regexp.MustCompile(`<!-- KingPhisher -->`),
		regexp.MustCompile(`(?i)king-phisher-tracking`),
	}
	kingPhisherJS = []*regexp.Regexp{
		regexp.MustCompile(`(?i)king_phisher`),
		regexp.MustCompile(`(?i)kp_track`),
	}

	socialFishURL = []*regexp.Regexp{
		regexp.MustCompile(`(?i)/social\.php`),
		regexp.MustCompile(`(?i)/phish/`),
	}
	socialFishJS = []*regexp.Regexp{
		regexp.MustCompile(`(?i)socialfish`),
		regexp.MustCompile(`(?i)sftrack`),
	}
	socialFishFormFields = []string{"email", "pass"}

	evilginxRedirect = []*regexp.Regexp{
		regexp.MustCompile(`(?i)redirect_uri=`),
		regexp.MustCompile(`(?i)oauth[^ ]*redirect`),
	}

	genericHosts = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\.000webhostapp\.com$`),
		regexp.MustCompile(`(?i)\.netlify\.app$`),
		regexp.MustCompile(`(?i)\.herokuapp\.com$`),
		regexp.MustCompile(`(?i)\.ngrok\.io$`),
		regexp.MustCompile(`(?i)\.serveo\.net$`),
	}
	genericHTML = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<form[^>]*method=["']post["'][^>]*>.*?<input[^>]*type=["']password`),
		regexp.MustCompile(`(?i)action=["'][^"']*login`),
		regexp.MustCompile(`(?is)verify.{0,40}your.{0,40}account`),
	}
	genericJS = []*regexp.Regexp{
		regexp.MustCompile(`(?i)document\.forms\[0\]\.submit`),
		regexp.MustCompile(`btoa\(`),
		regexp.MustCompile(`(?is)XMLHttpRequest.{0,200}password`),
	}
)

func (s *Scanner) checkGophish(p pageInput) familyResult {
	r := familyResult{name: FamilyGophish}

	// Recipient-tracking parameter is the strongest single indicator.
	if p.hasQueryParam("rid") {
		r.score += s.weights.GophishParam
		r.signatures = append(r.signatures, "URL parameter: ?rid=")
	}
	for _, h := range gophishHeaders {
		if p.hasHeader(h) {
			r.score += s.weights.GophishHeader
			r.signatures = append(r.signatures, "HTTP header: "+h)
		}
	}
	for _, re := range gophishHTML {
		if re.MatchString(p.html) {
			r.score += s.weights.GophishHTML
			r.signatures = append(r.signatures, "HTML pattern: "+re.String())
		}
	}
	for _, re := range gophishJS {
		if re.MatchString(p.html) {
			r.score += s.weights.GophishJS
			r.signatures = append(r.signatures, "JavaScript pattern: "+re.String())
		}
	}
	for _, f := range p.forms {
		names := formInputNames(f)
		if names["username"] && names["password"] {
			if strings.Contains(strings.ToLower(p.rawURL), "rid") || len(f.InputNames) <= 3 {
				r.score += s.weights.GophishForm
				r.signatures = append(r.signatures, "Standard Gophish form structure")
				break
			}
		}
	}
	return r
}

func (s *Scanner) checkHiddenEye(p pageInput) familyResult {
	r := familyResult{name: FamilyHiddenEye}

	for _, re := range hiddenEyeURL {
		if re.MatchString(p.path) || re.MatchString(p.rawURL) {
			r.score += s.weights.HiddenEyeURL
			r.signatures = append(r.signatures, "URL pattern: "+re.String())
		}
	}
	for _, re := range hiddenEyeHTML {
		if re.MatchString(p.html) {
			r.score += s.weights.HiddenEyeHTML
			r.signatures = append(r.signatures, "HTML pattern: "+re.String())
		}
	}
	for _, re := range hiddenEyeMeta {
		if re.MatchString(p.html) {
			r.score += s.weights.HiddenEyeMeta
			r.signatures = append(r.signatures, "HiddenEye meta tag")
		}
	}
	for _, re := range hiddenEyeJS {
		if re.MatchString(p.html) {
			r.score += s.weights.HiddenEyeJS
			r.signatures = append(r.signatures, "JavaScript pattern: "+re.String())
		}
	}
	return r
}

func (s *Scanner) checkKingPhisher(p pageInput) familyResult {
	r := familyResult{name: FamilyKingPhisher}

	for _, param := range kingPhisherParams {
		if p.hasQueryParam(param) {
			r.score += s.weights.KingPhisherParam
			r.signatures = append(r.signatures, "URL parameter: ?"+param+"=")
		}
	}
	for _, h := range kingPhisherHeaders {
		if p.hasHeader(h) {
			r.score += s.weights.KingPhisherHeader
			r.signatures = append(r.signatures, "HTTP header: "+h)
		}
	}
	for _, re := range kingPhisherHTML {
		if re.MatchString(p.html) {
			r.score += s.weights.KingPhisherHTML
			r.signatures = append(r.signatures, "King Phisher HTML marker")
		}
	}
	for _, re := range kingPhisherJS {
		if re.MatchString(p.html) {
			r.score += s.weights.KingPhisherJS
			r.signatures = append(r.signatures, "JavaScript pattern: "+re.String())
		}
	}
	return r
}

func (s *Scanner) checkSocialFish(p pageInput) familyResult {
	r := familyResult{name: FamilySocialFish}

	for _, re := range socialFishURL {
		if re.MatchString(p.rawURL) {
			r.score += s.weights.SocialFishURL
			r.signatures = append(r.signatures, "URL pattern: "+re.String())
		}
	}
	for _, re := range socialFishJS {
		if re.MatchString(p.html) {
			r.score += s.weights.SocialFishJS
			r.signatures = append(r.signatures, "JavaScript pattern: "+re.String())
		}
	}
	for _, f := range p.forms {
		names := formInputNames(f)
		matches := 0
		for _, field := range socialFishFormFields {
			if names[field] {
				matches++
			}
		}
		if matches >= 2 {
			r.score += s.weights.SocialFishForm
			r.signatures = append(r.signatures, "SocialFish form structure")
			break
		}
	}
	return r
}

// checkEvilginx requires at least two independent signatures before any of
// them count: a deeply nested subdomain alone is common on legitimate CDN
// and SaaS hosts, and the depth itself is computed via the suffix registry
// so hosts under bank.in or co.uk are not over-counted.
func (s *Scanner) checkEvilginx(p pageInput) familyResult {
	r := familyResult{name: FamilyEvilginx}

	depth := 0
	if p.host != "" {
		depth = s.suffixes.SubdomainDepth(p.host)
	}
	if depth >= s.weights.DeepSubdomainDepth {
		r.score += s.weights.EvilginxDepth
		r.signatures = append(r.signatures, fmt.Sprintf("Deeply nested subdomain (%d levels)", depth))
	}

	redirectMatches := 0
	for _, re := range evilginxRedirect {
		if re.MatchString(p.rawURL) {
			redirectMatches++
			r.score += s.weights.EvilginxRedirect
			r.signatures = append(r.signatures, "OAuth redirect pattern: "+re.String())
		}
	}

	// Corroborating signature only: both independent signals must already be
	// present, so it never turns one signal into two signatures. Depth comes
	// from the suffix registry, never from raw label counting.
	if depth >= s.weights.DeepSubdomainDepth && redirectMatches > 0 {
		r.score += s.weights.EvilginxURL
		r.signatures = append(r.signatures, "Proxy-style host pattern")
	}

	if len(r.signatures) < s.weights.EvilginxMinSignatures && r.score > s.weights.EvilginxLoneCap {
		r.score = s.weights.EvilginxLoneCap
	}
	return r
}

func (s *Scanner) checkGenericKit(p pageInput) familyResult {
	r := familyResult{name: FamilyGenericKit}

	for _, re := range genericHosts {
		if p.host != "" && re.MatchString(p.host) {
			r.score += s.weights.GenericHost
			r.signatures = append(r.signatures, "Suspicious hosting: "+re.String())
		}
	}
	for _, re := range genericHTML {
		if re.MatchString(p.html) {
			r.score += s.weights.GenericHTML
			r.signatures = append(r.signatures, "HTML pattern: "+re.String())
		}
	}
	for _, re := range genericJS {
		if re.MatchString(p.html) {
			r.score += s.weights.GenericJS
			r.signatures = append(r.signatures, "Credential exfiltration pattern: "+re.String())
		}
	}
	for _, f := range p.forms {
		types := formInputTypes(f)
		action := strings.ToLower(f.Action)
		if types["password"] && (strings.Contains(action, "login") || strings.Contains(action, "verify")) {
			r.score += s.weights.GenericForm
			r.signatures = append(r.signatures, "Login form with suspicious action")
			break
		}
	}
	return r
}
