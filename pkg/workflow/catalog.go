package workflow

import "sync"

// Folder and document statuses. Documents and folders share the same enum;
// their lifecycles are independent.
const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

// Folder categories.
const (
	CategorySafety        = "SAFETY_AND_HEALTH"
	CategoryEnvironmental = "ENVIRONMENTAL"
	CategoryVehicles      = "VEHICLES"
	CategoryPersonnel     = "PERSONNEL"
	CategoryTechSpecs     = "TECH_SPECS"
	CategoryLaborControl  = "LABOR_CONTROL"
)

// SlotDefinition is one expected document type within a category catalog.
type SlotDefinition struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// defaultCatalogs is the deployed slot configuration. Order is presentation
// order. An optional JSON file (see LoadCatalogFile) can replace it wholesale.
var defaultCatalogs = map[string][]SlotDefinition{
	CategorySafety: {
		{Type: "SAFETY_POLICY", Name: "Safety and Health Policy", Description: "Signed company policy on occupational safety and health", Required: true},
		{Type: "RISK_MATRIX", Name: "Risk Identification Matrix", Description: "Hazard identification and risk evaluation matrix for contracted works", Required: true},
		{Type: "EMERGENCY_PLAN", Name: "Emergency Response Plan", Description: "Evacuation and emergency response procedure for OTC sites", Required: true},
		{Type: "PPE_DELIVERY", Name: "PPE Delivery Records", Description: "Signed personal protective equipment delivery sheets", Required: true},
		{Type: "TRAINING_CERTIFICATES", Name: "Safety Training Certificates", Description: "Certificates for mandatory safety courses of assigned personnel", Required: true},
		{Type: "ACCIDENT_INSURANCE", Name: "Accident Insurance Certificate", Description: "Current workplace accident insurance coverage certificate", Required: true},
		{Type: "INTERNAL_REGULATIONS", Name: "Internal Order and Safety Regulations", Description: "Company internal regulations on order, hygiene and safety", Required: false},
		{Type: "JOINT_COMMITTEE_MINUTES", Name: "Joint Committee Minutes", Description: "Latest joint health and safety committee meeting minutes", Required: false},
		{Type: "HEALTH_SURVEILLANCE", Name: "Health Surveillance Program", Description: "Occupational health surveillance program for exposed workers", Required: false},
		{Type: "TOOLBOX_TALKS", Name: "Toolbox Talk Records", Description: "Records of daily safety talks held on site", Required: false},
	},
	CategoryEnvironmental: {
		{Type: "WASTE_MANAGEMENT_PLAN", Name: "Waste Management Plan", Description: "Plan for handling, storage and disposal of generated waste", Required: true},
		{Type: "HAZMAT_HANDLING", Name: "Hazardous Materials Procedure", Description: "Procedure for transport and handling of hazardous substances", Required: true},
		{Type: "SPILL_RESPONSE", Name: "Spill Response Procedure", Description: "Containment and cleanup procedure for accidental spills", Required: true},
		{Type: "ENVIRONMENTAL_PERMIT", Name: "Environmental Permit", Description: "Sectorial environmental permit where the works require one", Required: false},
		{Type: "RECYCLING_RECORDS", Name: "Recycling Records", Description: "Disposal and recycling certificates from authorized receivers", Required: false},
	},
	CategoryVehicles: {
		{Type: "CIRCULATION_PERMIT", Name: "Circulation Permit", Description: "Current municipal circulation permit", Required: true},
		{Type: "MANDATORY_INSURANCE", Name: "Mandatory Insurance", Description: "Current mandatory personal accident insurance (SOAP)", Required: true},
		{Type: "TECHNICAL_INSPECTION", Name: "Technical Inspection", Description: "Current vehicle technical inspection certificate", Required: true},
		{Type: "DRIVER_LICENSE", Name: "Driver License", Description: "License of the assigned driver, class matching the vehicle", Required: true},
		{Type: "MAINTENANCE_LOG", Name: "Maintenance Log", Description: "Preventive maintenance log for the vehicle", Required: false},
		{Type: "TRANSPORT_AUTHORIZATION", Name: "Transport Authorization", Description: "Cargo or personnel transport authorization where applicable", Required: false},
	},
	CategoryPersonnel: {
		{Type: "EMPLOYMENT_CONTRACT", Name: "Employment Contract", Description: "Signed employment contract of the worker", Required: true},
		{Type: "ID_COPY", Name: "Identity Document Copy", Description: "Copy of the worker's national identity document", Required: true},
		{Type: "PRE_OCCUPATIONAL_EXAM", Name: "Pre-occupational Exam", Description: "Current pre-occupational medical exam for the assigned role", Required: true},
		{Type: "SAFETY_INDUCTION", Name: "Safety Induction Record", Description: "Signed OTC site safety induction record", Required: true},
		{Type: "JOB_DESCRIPTION", Name: "Job Description", Description: "Signed job description and risk information sheet", Required: false},
		{Type: "COMPETENCY_CERTIFICATES", Name: "Competency Certificates", Description: "Trade or operator competency certificates where required", Required: false},
	},
	CategoryTechSpecs: {
		{Type: "WORK_METHOD_STATEMENT", Name: "Work Method Statement", Description: "Method statement for the contracted works", Required: true},
		{Type: "EQUIPMENT_CERTIFICATES", Name: "Equipment Certificates", Description: "Certification of lifting gear and special equipment", Required: true},
		{Type: "QUALITY_PLAN", Name: "Quality Plan", Description: "Quality assurance plan for the contracted works", Required: false},
		{Type: "WARRANTY_POLICY", Name: "Warranty Policy", Description: "Warranty terms for delivered works", Required: false},
	},
	CategoryLaborControl: {
		{Type: "PAYROLL_SUMMARY", Name: "Payroll Summary", Description: "Monthly payroll summary for assigned personnel", Required: true},
		{Type: "SOCIAL_SECURITY_F30", Name: "Certificate F30", Description: "Labor and social security compliance certificate (F30)", Required: true},
		{Type: "WAGES_PAID_F30_1", Name: "Certificate F30-1", Description: "Certificate of paid wages and withholdings (F30-1)", Required: true},
		{Type: "ATTENDANCE_RECORDS", Name: "Attendance Records", Description: "Monthly attendance records for personnel on OTC sites", Required: true},
		{Type: "SEVERANCE_RECEIPTS", Name: "Severance Receipts", Description: "Settlement receipts for personnel leaving during the period", Required: false},
	},
}

var (
	catalogMu sync.RWMutex
	catalogs  = defaultCatalogs
)

// Catalog returns the ordered slot list for a category. The returned slice is
// shared; callers must not mutate it.
func Catalog(category string) ([]SlotDefinition, error) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	slots, ok := catalogs[category]
	if !ok {
		return nil, &ConfigurationError{Category: category}
	}
	return slots, nil
}

// Categories returns the known category codes in presentation order.
func Categories() []string {
	return []string{
		CategorySafety,
		CategoryEnvironmental,
		CategoryVehicles,
		CategoryPersonnel,
		CategoryTechSpecs,
		CategoryLaborControl,
	}
}

// CompanyCategories are the categories attached directly to a company; they
// make up its startup folder.
func CompanyCategories() []string {
	return []string{CategorySafety, CategoryEnvironmental, CategoryTechSpecs}
}

// RequiredCount returns how many slots in a category are required.
func RequiredCount(category string) (int, error) {
	slots, err := Catalog(category)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range slots {
		if s.Required {
			n++
		}
	}
	return n, nil
}
