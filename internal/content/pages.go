package content

// Page sources for topics that have no hand-written markdown yet. These are
// snapshots of the marketing/app page markup; the extractor pulls the prose
// out structurally and drops layout and code remnants.
var pageSources = map[string]string{
	"billing": `
<PageShell title="Billing and Subscriptions">
  <Hero className="hero-gradient">
    <span className="badge">Billing</span>
    <p className="lead-text">OnRope bills per active seat each month. A seat is any team member who can sign in; deactivated members stop counting the day you deactivate them, and new invitations only count once they are accepted.</p>
  </Hero>
  <section id="plans">
    <h2>Plans and seats</h2>
    <p>Every plan includes scheduling, time tracking, certifications, and the assistant. Plans differ in seat count, storage for site photos, and whether the client portal is available. Upgrading takes effect immediately; downgrading applies from the next billing date so you never lose access mid-cycle.</p>
    <FeatureCard icon={<CreditCard />} title="Per-seat pricing" description="Pay only for people who can sign in. Seasonal crews can be deactivated between contracts and reactivated without losing their history." />
    <FeatureCard icon={<FileText />} title="Itemized invoices" description="Each invoice lists seats by name and the days they were active, so your bookkeeper can allocate costs to contracts." />
    <FeatureCard icon={<Shield />} title="No long contracts" description="All plans are month to month. Cancelling keeps your data exported and available for ninety days." />
  </section>
  <section id="payment">
    <h3>Payment methods</h3>
    <p>Cards are charged automatically on the billing date. Companies on twenty seats or more can switch to invoice terms with bank transfer; reach out from the billing page and the change applies from the next cycle.</p>
    <div className="cta">{ctaLabel}</div>
  </section>
  <section id="faq">
    <h2>Billing questions</h2>
    <Accordion question="How do I change my plan?">
      <p>Open Settings, then Billing, and choose the new plan. Upgrades are prorated for the current month; downgrades start at the next billing date.</p>
    </Accordion>
    <Accordion question="What happens when a payment fails?">
      <p>We retry the card three times over a week and email the owner after each attempt. Access is never cut off mid-job; after the third failure the account becomes read-only until a payment method works.</p>
    </Accordion>
    <Accordion question="Can I get a refund?">
      <p>Monthly charges are not refunded, but deactivating seats immediately reduces the next invoice. Annual plans refund the unused whole months when you cancel.</p>
    </Accordion>
  </section>
  <Footer note="pricing subject to change" />
</PageShell>
`,

	"team-management": `
<PageShell title="Team and Roles">
  <Hero>
    <span className="badge">Team</span>
    <p className="lead-text">Your team lives in one list: owners, supervisors, and technicians, each with a role that controls exactly what they can see and change. Roles are assigned at invitation and can be changed any time by an owner.</p>
  </Hero>
  <section id="roles">
    <h2>What each role can do</h2>
    <FeatureCard icon={<Crown />} title="Owner" description="Full access including billing, company settings, and the reindex of help content. Every company has at least one owner." />
    <FeatureCard icon={<Clipboard />} title="Supervisor" description="Runs the day to day: builds the schedule, approves timecards, records certifications for the crew, and sees live roster data." />
    <FeatureCard icon={<HardHat />} title="Technician" description="Sees their own assignments, clocks in and out, uploads their own certifications, and can browse active projects." />
  </section>
  <section id="invites">
    <h3>Inviting people</h3>
    <p>Invitations go out by email and expire after seven days. An invited person picks their own password; you never handle credentials. Resending an invitation invalidates the previous link.</p>
    <p className="muted">tip</p>
  </section>
  <section id="faq">
    <h2>Team questions</h2>
    <Accordion question="Can someone hold two roles?">
      <p>No. A person has exactly one role per company. Supervisors who also work on the wall are simply supervisors; the role grants everything a technician can do.</p>
    </Accordion>
    <Accordion question="What happens when I deactivate someone?">
      <p>They lose access immediately, their seat stops being billed, and their history (assignments, timecards, certifications) stays attached to their name for reporting.</p>
    </Accordion>
  </section>
</PageShell>
`,
}

// PageMarkup returns the fallback page source for a registry entry.
func PageMarkup(key string) (string, bool) {
	src, ok := pageSources[key]
	return src, ok
}
