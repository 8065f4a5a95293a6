// Copyright 2025 The Platform Building Block Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

// Variant schemas for customProperties per (type, subtype) pair. Fields that
// are common across tenants live here until promoted to first class columns
// on Object. Each variant is a closed shape - unknown keys are rejected at
// the store boundary.

// ContactProperties is the contact/person variant
type ContactProperties struct {
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// TemplateProperties is the template/email and template/pdf variant
type TemplateProperties struct {
	SubjectKey string `json:"subjectKey,omitempty"`
	BodyHTML   string `json:"bodyHtml,omitempty"`
	LabelKey   string `json:"labelKey,omitempty"`
}

// TemplateSetProperties is the template_set variant
type TemplateSetProperties struct {
	LabelKey string `json:"labelKey,omitempty"`
}

// TranslationProperties is the translation/string variant
type TranslationProperties struct {
	Value string `json:"value" validate:"required"`
}

// ConfigValueProperties is the config/override variant - one resolvable
// value under a config key
type ConfigValueProperties struct {
	Value interface{} `json:"value" validate:"required"`
}

// TaxSettingsProperties is the config/tax_settings singleton variant
type TaxSettingsProperties struct {
	Behavior       string `json:"behavior" validate:"required,oneof=inclusive exclusive exempt"`
	RegistrationID string `json:"registrationId,omitempty"`
	CountryCode    string `json:"countryCode,omitempty" validate:"omitempty,len=2"`
}

// RoleProperties is the role variant. Hierarchy rank mirrors the startup
// loaded hierarchy table, lower is more senior.
type RoleProperties struct {
	Hierarchy int  `json:"hierarchy" validate:"gte=0"`
	Global    bool `json:"global,omitempty"`
}

// PermissionProperties is the permission variant
type PermissionProperties struct {
	Description string `json:"description,omitempty"`
}

// MembershipProperties is the organization_member variant
type MembershipProperties struct {
	RoleID string `json:"role_id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=active pending inactive"`
}

// PrincipalProperties is the principal variant - a directly held global role
type PrincipalProperties struct {
	GlobalRole string `json:"global_role,omitempty"`
}

// OrganizationProfileProperties is the organization/profile singleton
// variant - the organization's own node in the graph
type OrganizationProfileProperties struct {
	Domains  []string `json:"domains,omitempty"`
	LabelKey string   `json:"labelKey,omitempty"`
}

// EventProperties is the event variant
type EventProperties struct {
	Starts   string `json:"starts,omitempty"`
	Ends     string `json:"ends,omitempty"`
	Venue    string `json:"venue,omitempty"`
	Capacity int    `json:"capacity,omitempty" validate:"gte=0"`
}

// InvoiceProperties is the invoice variant
type InvoiceProperties struct {
	Number   string  `json:"number,omitempty"`
	Amount   float64 `json:"amount,omitempty" validate:"gte=0"`
	Currency string  `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// LicenseProperties is the license/active singleton variant
type LicenseProperties struct {
	Plan string `json:"plan" validate:"required,oneof=free pro enterprise"`
}

// ProductProperties is the product variant
type ProductProperties struct {
	SKU      string  `json:"sku,omitempty"`
	Price    float64 `json:"price,omitempty" validate:"gte=0"`
	LabelKey string  `json:"labelKey,omitempty"`
}

// CheckoutProperties is the checkout variant
type CheckoutProperties struct {
	Slug     string `json:"slug,omitempty"`
	DomainID string `json:"domain_id,omitempty"`
}

// DomainProperties is the domain variant
type DomainProperties struct {
	Hostname string `json:"hostname" validate:"required,hostname"`
}

// RegisterCoreSchemas registers the variant schema of every (type, subtype)
// pair the platform persists. Called once at startup - the registry rejects
// everything else.
func RegisterCoreSchemas(registry *SchemaRegistry) error {
	pairs := []struct {
		objectType string
		subtype    string
		prototype  interface{}
	}{
		{ObjectTypeContact, "person", ContactProperties{}},
		{ObjectTypeContact, "company", ContactProperties{}},
		{ObjectTypeTemplate, "email", TemplateProperties{}},
		{ObjectTypeTemplate, "pdf", TemplateProperties{}},
		{ObjectTypeTemplateSet, SubtypeSetDefault, TemplateSetProperties{}},
		{ObjectTypeTemplateSet, "custom", TemplateSetProperties{}},
		{ObjectTypeTranslation, "string", TranslationProperties{}},
		{ObjectTypeConfig, "override", ConfigValueProperties{}},
		{ObjectTypeConfig, SubtypeTaxSettings, TaxSettingsProperties{}},
		{ObjectTypeRole, "role", RoleProperties{}},
		{ObjectTypePermission, "permission", PermissionProperties{}},
		{ObjectTypeMember, "member", MembershipProperties{}},
		{ObjectTypePrincipal, "principal", PrincipalProperties{}},
		{ObjectTypeOrganization, SubtypeProfile, OrganizationProfileProperties{}},
		{ObjectTypeEvent, "event", EventProperties{}},
		{ObjectTypeInvoice, "invoice", InvoiceProperties{}},
		{ObjectTypeLicense, SubtypeLicenseActive, LicenseProperties{}},
		{ObjectTypeProduct, "product", ProductProperties{}},
		{ObjectTypeCheckout, "checkout", CheckoutProperties{}},
		{ObjectTypeDomain, "domain", DomainProperties{}},
	}

	for _, pair := range pairs {
		err := registry.Register(pair.objectType, pair.subtype, pair.prototype)
		if err != nil {
			return err
		}
	}
	return nil
}
